package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"garage/database"
	"garage/middleware"
	"garage/models"
	"garage/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportRow 导出行，分组名与实际成本已解析
type exportRow struct {
	Part      models.TuningPart
	GroupName string
	CostEur   float64
}

// loadExportRows 加载车辆的改装件导出数据，按分组顺序和组内顺序排列
func loadExportRows(c *gin.Context) (*models.Car, []exportRow, float64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return nil, nil, 0, false
	}

	car, ok := findOwnedCar(c, id)
	if !ok {
		return nil, nil, 0, false
	}

	var groups []models.TuningGroup
	if err := database.DB.Where("car_id = ?", car.ID).Find(&groups).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return nil, nil, 0, false
	}
	var parts []models.TuningPart
	if err := database.DB.Where("car_id = ?", car.ID).Find(&parts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return nil, nil, 0, false
	}

	service.SortGroups(groups)
	service.SortParts(parts, service.SortByOrderIndex)

	rows := make([]exportRow, 0, len(parts))
	for _, g := range groups {
		for i := range parts {
			if parts[i].GroupID != g.ID {
				continue
			}
			rows = append(rows, exportRow{
				Part:      parts[i],
				GroupName: g.Name,
				CostEur:   service.ResolvePartCost(&parts[i]),
			})
		}
	}

	return car, rows, service.TotalSpent(parts), true
}

// ExportCSV 导出改装清单为 CSV
// @Summary 导出改装清单为 CSV
// @Description 导出车辆的全部改装件为 CSV 文件，成本为按定价规则解析后的实际成本
// @Tags 导出
// @Accept json
// @Produce text/csv
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Success 200 {file} file "CSV 文件"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "车辆不存在"
// @Router /api/v1/cars/{id}/tuning/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	car, rows, totalSpent, ok := loadExportRows(c)
	if !ok {
		return
	}

	// 生成 CSV
	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	// 写入表头
	headers := []string{"ID", "分组", "名称", "状态", "数量", "单价(EUR)", "总价(EUR)", "工时费(EUR)", "实际成本(EUR)", "创建时间"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	// 写入数据
	for _, r := range rows {
		quantity := ""
		if r.Part.Quantity != nil {
			quantity = strconv.Itoa(*r.Part.Quantity)
		}
		row := []string{
			fmt.Sprintf("%d", r.Part.ID),
			r.GroupName,
			r.Part.Title,
			r.Part.Status,
			quantity,
			formatPrice(r.Part.UnitPriceEur),
			formatPrice(r.Part.TotalPriceEur),
			formatPrice(r.Part.LaborPriceEur),
			fmt.Sprintf("%.2f", r.CostEur),
			r.Part.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	// 合计行不含已放弃的改装件
	_ = writer.Write([]string{"", "", "", "", "", "", "", "合计", fmt.Sprintf("%.2f", totalSpent), ""})

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("tuning_%d_%s.csv", car.ID, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// formatPrice 可空价格字段的导出格式
func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

// ExportJSON 导出改装清单为 JSON
// @Summary 导出改装清单为 JSON
// @Description 导出车辆的全部改装件为 JSON，含分组、实际成本与汇总
// @Tags 导出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Success 200 {object} Response "导出成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "车辆不存在"
// @Router /api/v1/cars/{id}/tuning/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	car, rows, totalSpent, ok := loadExportRows(c)
	if !ok {
		return
	}

	ownerName, err := service.DefaultUserCache.DisplayName(middleware.GetCurrentUserID(c))
	if err != nil {
		ownerName = ""
	}

	type jsonRow struct {
		models.TuningPart
		GroupName       string  `json:"group_name"`
		ResolvedCostEur float64 `json:"resolved_cost_eur"`
	}
	list := make([]jsonRow, 0, len(rows))
	for _, r := range rows {
		list = append(list, jsonRow{
			TuningPart:      r.Part,
			GroupName:       r.GroupName,
			ResolvedCostEur: r.CostEur,
		})
	}

	Success(c, gin.H{
		"car_id":          car.ID,
		"car_name":        car.Name,
		"owner":           ownerName,
		"exported_at":     time.Now().Format("2006-01-02 15:04:05"),
		"total_count":     len(list),
		"total_spent_eur": totalSpent,
		"parts":           list,
	})
}

// ExportExcel 导出改装清单为 Excel
// @Summary 导出改装清单为 Excel
// @Description 导出车辆的全部改装件为 xlsx 文件，含表头样式与合计行
// @Tags 导出
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "车辆ID"
// @Success 200 {file} file "Excel 文件"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "车辆不存在"
// @Router /api/v1/cars/{id}/tuning/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	car, rows, totalSpent, ok := loadExportRows(c)
	if !ok {
		return
	}

	ownerName, err := service.DefaultUserCache.DisplayName(middleware.GetCurrentUserID(c))
	if err != nil {
		ownerName = ""
	}

	// 创建 Excel 文件
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "改装清单"
	f.SetSheetName("Sheet1", sheetName)

	// 设置表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 数据样式
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 18)
	f.SetColWidth(sheetName, "C", "C", 35)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 8)
	f.SetColWidth(sheetName, "F", "H", 14)
	f.SetColWidth(sheetName, "I", "I", 16)
	f.SetColWidth(sheetName, "J", "J", 20)

	// 写入表头
	headers := []string{"ID", "分组", "名称", "状态", "数量", "单价(EUR)", "总价(EUR)", "工时费(EUR)", "实际成本(EUR)", "创建时间"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	// 写入数据
	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.Part.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.GroupName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Part.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Part.Status)
		if r.Part.Quantity != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), *r.Part.Quantity)
		}
		if r.Part.UnitPriceEur != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), *r.Part.UnitPriceEur)
		}
		if r.Part.TotalPriceEur != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), *r.Part.TotalPriceEur)
		}
		if r.Part.LaborPriceEur != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), *r.Part.LaborPriceEur)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), r.CostEur)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), r.Part.CreatedAt.Format("2006-01-02 15:04:05"))

		// 设置数据样式
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("J%d", row), dataStyle)
	}

	// 添加汇总行（不含已放弃的改装件）
	summaryRow := len(rows) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("H%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("I%d", summaryRow), totalSpent)
	f.SetCellValue(sheetName, fmt.Sprintf("J%d", summaryRow),
		fmt.Sprintf("共 %d 条记录 / %s", len(rows), ownerName))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("J%d", summaryRow), summaryStyle)

	// 设置响应头
	filename := fmt.Sprintf("改装清单_%s_%s.xlsx", car.Name, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, SafeErrorMessage(err, "生成 Excel 失败"))
		return
	}
}
