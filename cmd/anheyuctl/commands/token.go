/*
 * @Description: 本地调试用的 Token 签发命令
 * @Author: 安知鱼
 * @Date: 2025-10-23 10:20:51
 * @LastEditTime: 2025-10-23 10:58:03
 * @LastEditors: 安知鱼
 */
package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/anzhiyu-c/anheyu-press/internal/pkg/auth"
	"github.com/anzhiyu-c/anheyu-press/pkg/config"
	"github.com/anzhiyu-c/anheyu-press/pkg/idgen"
)

func newTokenCmd(opts *options) *cobra.Command {
	var (
		userID uint
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "为指定用户签发 Access Token",
		Long: `使用配置中的 JWT.Secret 和 JWT.IDSeed 签发 Token。
IDSeed 必须与服务端一致，否则服务端无法解析 Token 中的用户ID。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfigFromFile(opts.configPath)
			if err != nil {
				return err
			}
			seed := cfg.GetString(config.KeyIDSeed)
			if seed == "" {
				return errors.New("未配置 JWT.IDSeed，签发的 Token 无法被服务端解析")
			}
			if err := idgen.InitSqidsEncoderWithSeed(seed); err != nil {
				return err
			}

			token, err := auth.GenerateToken(userID, []byte(cfg.GetString(config.KeyJWTSecret)), ttl)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, map[string]string{"token": token}, token)
		},
	}
	cmd.Flags().UintVar(&userID, "user-id", 0, "用户ID")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "有效期")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
