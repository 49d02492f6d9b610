/*
 * @Description: anheyuctl 根命令与公共参数
 * @Author: 安知鱼
 * @Date: 2025-10-23 09:12:40
 * @LastEditTime: 2025-10-23 11:20:17
 * @LastEditors: 安知鱼
 */
package commands

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"entgo.io/ent/dialect"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/anzhiyu-c/anheyu-press/internal/infra/persistence/database"
	ent_impl "github.com/anzhiyu-c/anheyu-press/internal/infra/persistence/ent"
	"github.com/anzhiyu-c/anheyu-press/internal/pkg/version"
	"github.com/anzhiyu-c/anheyu-press/pkg/config"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/repository"
)

// 输出格式
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// options 是所有子命令共享的全局参数
type options struct {
	configPath string
	jsonOutput bool
	output     string
}

// format 返回最终的输出格式，--json 等价于 --output json
func (o *options) format() string {
	if o.jsonOutput {
		return outputJSON
	}
	return o.output
}

// structured 报告是否输出结构化数据而不是文本
func (o *options) structured() bool {
	return o.format() != outputText
}

// NewRootCmd 构建完整的命令树
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "anheyuctl",
		Short: "Anheyu Press 运维工具",
		Long: `anheyuctl 直接连接配置中的数据库，执行与 HTTP 接口相同的一致性操作。

命令行执行的操作不会发布领域事件，排行榜会在下一次定时重建时同步。`,
		Version:       version.GetVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultConfigPath, "配置文件路径")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "以 JSON 格式输出，等价于 --output json")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputText, "输出格式: text, json, yaml")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch opts.format() {
		case outputText, outputJSON, outputYAML:
			return nil
		default:
			return fmt.Errorf("不支持的输出格式: %s", opts.output)
		}
	}

	rootCmd.AddCommand(
		newMigrateCmd(opts),
		newMergeCategoriesCmd(opts),
		newDeleteCategoryCmd(opts),
		newPruneArticlesCmd(opts),
		newDeleteArticlesCmd(opts),
		newDeleteUserCmd(opts),
		newTokenCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

// store 是命令执行期间持有的数据库资源
type store struct {
	cfg       *config.Config
	sqlDB     *sql.DB
	driver    dialect.Driver
	txManager repository.TransactionManager
	repos     repository.Repositories
}

func (s *store) Close() error {
	return s.sqlDB.Close()
}

// openStore 加载配置并打开数据库，打开时会自动迁移表结构
func openStore(opts *options) (*store, error) {
	cfg, err := config.NewConfigFromFile(opts.configPath)
	if err != nil {
		return nil, err
	}
	sqlDB, err := database.NewSQLDB(cfg)
	if err != nil {
		return nil, err
	}
	drv, err := database.NewDriver(sqlDB, cfg)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &store{
		cfg:       cfg,
		sqlDB:     sqlDB,
		driver:    drv,
		txManager: ent_impl.NewEntTransactionManager(drv),
		repos:     ent_impl.NewRepositories(drv),
	}, nil
}

// render 按 --output 输出结构化结果，文本格式时输出给定的文本
func render(w io.Writer, opts *options, data interface{}, text string) error {
	switch opts.format() {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case outputYAML:
		// 先经过 JSON 转换，使 YAML 的键名与 JSON 输出一致
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		var doc interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
