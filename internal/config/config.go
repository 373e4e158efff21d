package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// 环境变量覆盖
const (
	EnvDataDir        = "REGIONALDASH_DATA_DIR"
	EnvDefaultCompany = "REGIONALDASH_DEFAULT_COMPANY"
	EnvLogLevel       = "REGIONALDASH_LOG_LEVEL"
	EnvPort           = "REGIONALDASH_PORT"
)

// FileName 配置文件名（位于可执行文件同目录）
const FileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Report ReportConfig `toml:"report"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// ReportConfig 报表配置
type ReportConfig struct {
	Currency          string `toml:"currency"`
	DefaultCompany    string `toml:"default_company"`
	DefaultFiscalYear string `toml:"default_fiscal_year"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20261,
			OpenBrowser: true,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Report: ReportConfig{
			Currency: "USD",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 默认配置文件路径
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, FileName)
}

// LoadConfigWithInfo 从指定路径加载配置并返回元信息；path 为空时使用默认路径。
// 文件不存在时使用默认配置，之后再应用环境变量覆盖。
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.Found = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
	default:
		return nil, info, err
	}

	applyEnv(config, &info)
	return config, info, nil
}

func applyEnv(config *AppConfig, info *LoadConfigInfo) {
	if v := os.Getenv(EnvDataDir); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv(EnvDefaultCompany); v != "" {
		config.Report.DefaultCompany = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
			info.PortSpecified = true
		}
	}
}

// SaveConfig 保存配置；path 为空时使用默认路径
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LogLevel 解析日志级别；无法识别时为 info
func (c *AppConfig) LogLevel() log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(c.Log.Level)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DataDir 数据目录的绝对路径；相对路径以可执行文件所在目录为基准
func (c *AppConfig) DataDir() string {
	if filepath.IsAbs(c.Data.DataDir) {
		return c.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, c.Data.DataDir)
}

// EnsureDataDir 确保数据目录及子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.DataDir()

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	for _, dir := range []string{UploadDir(dataDir), ExportDir(dataDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}

// UploadDir 上传文件暂存目录
func UploadDir(dataDir string) string {
	return filepath.Join(dataDir, "uploads")
}

// ExportDir 导出文件目录
func ExportDir(dataDir string) string {
	return filepath.Join(dataDir, "exports")
}

// DatabasePath SQLite 数据库文件路径
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, "regionaldash.db")
}
