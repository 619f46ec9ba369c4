package cmd

import (
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/haierkeys/fast-file-share-service/pkg/fileurl"
	"github.com/haierkeys/fast-file-share-service/pkg/util"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	dir     string // Project root directory // 项目根目录
	port    string // Startup port // 启动端口
	runMode string // Startup mode // 启动模式
	config  string // Specified configuration file path // 指定要使用的配置文件路径
}

// defaultConfigKey 内嵌默认配置中的占位密钥，首次写出时替换为随机值
const defaultConfigKey = "fast-file-share-Auth-Token"

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				err := os.Chdir(runEnv.dir)
				if err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			if len(runEnv.config) <= 0 {
				path, err := discoverConfig()
				if err != nil {
					bootstrapLogger.Error("config file auto create error", zap.Error(err))
					return
				}
				runEnv.config = path
			}

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}

			// current 保存当前运行的 server，配置热加载时会被替换
			var mu sync.Mutex
			current := func() *Server {
				mu.Lock()
				defer mu.Unlock()
				return s
			}

			w := watcher.New()

			// Set MaxEvents to 1 to receive at most 1 event in each listening cycle
			// 将 SetMaxEvents 设置为 1，以便在每个监听周期中至多接收 1 个事件
			w.SetMaxEvents(1)

			// Only notify write events.
			// 只通知写入事件。
			w.FilterOps(watcher.Write)

			go func() {
				for {
					select {
					case event := <-w.Event:
						old := current()
						old.logger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))

						// 先等旧实例完全释放端口与数据库，再重新初始化
						old.sc.SendCloseSignal(nil)
						if err := old.sc.WaitClosed(); err != nil {
							old.logger.Error("previous server shutdown error", zap.Error(err))
						}

						next, err := NewServer(runEnv)
						if err != nil {
							bootstrapLogger.Error("service restart err", zap.Error(err))
							continue
						}
						mu.Lock()
						s = next
						mu.Unlock()

					case err := <-w.Error:
						current().logger.Error("config watcher error", zap.Error(err))
					case <-w.Closed:
						bootstrapLogger.Info("config watcher closed")
						return
					}
				}
			}()

			// Watch config file
			// 监听配置文件
			if err := w.Add(runEnv.config); err != nil {
				s.logger.Error("config watcher file error", zap.Error(err))
			}

			go func() {
				if err := w.Start(time.Second * 5); err != nil {
					current().logger.Error("config watcher start error", zap.Error(err))
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			w.Close()

			last := current()
			last.logger.Info("Received shutdown signal, initiating graceful shutdown...")
			last.sc.SendCloseSignal(nil)

			// Wait for all shutdown handlers to complete (including App Container graceful shutdown)
			// 等待所有关闭处理器完成（包括 App Container 的优雅关闭）
			if err := last.sc.WaitClosed(); err != nil {
				last.logger.Error("Shutdown completed with error", zap.Error(err))
			} else {
				last.logger.Info("Service has been shut down gracefully.")
			}
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}

// discoverConfig 按优先级查找配置文件，均不存在时写出内嵌的默认配置
func discoverConfig() (string, error) {
	for _, p := range []string{"config/config-dev.yaml", "config.yaml", "config/config.yaml"} {
		if fileurl.IsExist(p) {
			return p, nil
		}
	}

	bootstrapLogger.Warn("config file not found, creating default config")
	path := "config/config.yaml"

	content := strings.Replace(configDefault, defaultConfigKey, util.GetRandomString(32), 1)

	if err := fileurl.CreatePath(path); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", path))
	return path, nil
}
