/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-10-23 09:30:02
 * @LastEditTime: 2025-10-23 10:02:45
 * @LastEditors: 安知鱼
 */
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type migrateResult struct {
	Users      int64 `json:"users"`
	Articles   int64 `json:"articles"`
	Categories int64 `json:"categories"`
}

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "创建或更新数据库表结构",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			var result migrateResult
			if result.Users, err = s.repos.User.Count(ctx); err != nil {
				return err
			}
			if result.Articles, err = s.repos.Article.Count(ctx); err != nil {
				return err
			}
			if result.Categories, err = s.repos.Category.Count(ctx); err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), opts, result, fmt.Sprintf(
				"迁移完成：%d 个用户，%d 篇文章，%d 个分类", result.Users, result.Articles, result.Categories))
		},
	}
}
