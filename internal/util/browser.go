package util

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
	"strconv"
)

// OpenBrowser 打开默认浏览器
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// rundll32 比 cmd /c start 更稳定
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}

// OpenBrowserWithFallback 主要方式失败时尝试备选方式
func OpenBrowserWithFallback(url string) error {
	err := OpenBrowser(url)
	if err == nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", url).Start()
	case "linux":
		for _, browser := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			if err := exec.Command(browser, url).Start(); err == nil {
				return nil
			}
		}
	}

	return err
}

// LocalURL 本机访问地址
func LocalURL(port int, path string) string {
	return fmt.Sprintf("http://%s%s", net.JoinHostPort("localhost", strconv.Itoa(port)), path)
}

// ListenAddr 监听地址
func ListenAddr(port int) string {
	return ":" + strconv.Itoa(port)
}
