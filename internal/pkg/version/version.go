/*
 * @Description: 构建版本信息
 * @Author: 安知鱼
 * @Date: 2025-08-20 10:12:40
 * @LastEditTime: 2025-10-22 17:05:13
 * @LastEditors: 安知鱼
 */
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// 这些变量将在构建时通过 ldflags 注入
var (
	Version   = "dev"             // 版本号，如 v1.0.0
	Commit    = "unknown"         // Git commit hash
	Date      = "unknown"         // 构建时间
	GoVersion = runtime.Version() // Go 版本
)

// BuildInfo 包含构建信息
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// GetVersion 返回应用版本号，未注入时回退到模块版本
func GetVersion() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown (no build info)"
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	return "dev"
}

// GetCommit 返回短 commit hash
func GetCommit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	rev := vcsSetting("vcs.revision")
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// GetBuildDate 返回构建时间
func GetBuildDate() string {
	if Date != "unknown" && Date != "" {
		return Date
	}
	raw := vcsSetting("vcs.time")
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format("2006-01-02 15:04:05")
	}
	return raw
}

// GetBuildInfo 返回详细的构建信息
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   GetVersion(),
		Commit:    GetCommit(),
		Date:      GetBuildDate(),
		GoVersion: GoVersion,
	}
}

// GetVersionString 返回完整的版本字符串
func GetVersionString() string {
	parts := []string{GetVersion()}
	if commit := GetCommit(); commit != "unknown" {
		parts = append(parts, fmt.Sprintf("commit %s", commit))
	}
	if date := GetBuildDate(); date != "unknown" {
		parts = append(parts, fmt.Sprintf("built at %s", date))
	}
	return strings.Join(parts, ", ")
}

func vcsSetting(key string) string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == key && setting.Value != "" {
			return setting.Value
		}
	}
	return "unknown"
}
