package config

// DefaultConfigYAML 内置默认配置，可被外部 config.yaml 或环境变量覆盖
var DefaultConfigYAML = []byte(`server:
  port: ":8080"
  mode: "debug"
  base_url: "http://localhost:8080"

database:
  host: "127.0.0.1"
  port: "3306"
  username: "root"
  password: "root"
  dbname: "garage"
  charset: "utf8mb4"

jwt:
  secret: "garage-dev-secret-change-me"
  expire_hours: 24

email:
  enabled: false
  host: "smtp.example.com"
  port: 465
  username: ""
  password: ""
  from: "Garage"
`)

// SafeErrorMessage 生产环境（release 模式）下隐藏内部错误详情，只返回兜底文案
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
