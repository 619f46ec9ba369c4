package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	internalApp "github.com/haierkeys/fast-file-share-service/internal/app"
	"github.com/haierkeys/fast-file-share-service/pkg/storage"
	"github.com/haierkeys/fast-file-share-service/pkg/util"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	var configPath string

	checkCmd := &cobra.Command{
		Use:   "check-storage [-c config_file]",
		Short: "Write, read back and delete a check object on the configured storage. // 对配置的存储做一次读写删除探测。",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				p, err := discoverConfig()
				if err != nil {
					return err
				}
				configPath = p
			}

			cfg, realpath, err := internalApp.LoadConfig(configPath)
			if err != nil {
				return err
			}
			bootstrapLogger.Info("config loaded", zap.String("path", realpath), zap.String("storage", cfg.Storage.Type))

			store, err := storage.NewClient(&cfg.Storage, bootstrapLogger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			if err := verifyStorage(ctx, store); err != nil {
				return err
			}
			fmt.Printf("storage %q OK\n", cfg.Storage.Type)
			return nil
		},
	}

	checkCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file")
	rootCmd.AddCommand(checkCmd)
}

// verifyStorage 写入随机内容、读回比对后删除
func verifyStorage(ctx context.Context, store storage.Storager) error {
	payload := []byte(util.GetRandomString(64))
	key := "healthcheck/check-" + util.GetRandomString(12)

	key, err := store.SendFile(ctx, key, bytes.NewReader(payload), "text/plain")
	if err != nil {
		return errors.Wrap(err, "write check object")
	}
	defer func() {
		if err := store.Delete(ctx, key); err != nil {
			bootstrapLogger.Warn("delete check object failed", zap.String("key", key), zap.Error(err))
		}
	}()

	ok, err := store.Exists(ctx, key)
	if err != nil {
		return errors.Wrap(err, "stat check object")
	}
	if !ok {
		return errors.Errorf("check object %s not found after write", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		return errors.Wrap(err, "open check object")
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		return errors.Wrap(err, "read check object")
	}
	if !bytes.Equal(got, payload) {
		return errors.New("check object content mismatch")
	}
	return nil
}
