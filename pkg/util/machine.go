package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
)

// machineAppID 参与哈希，避免把原始机器码写进令牌签名
const machineAppID = "fast-file-share-service"

var (
	machineOnce sync.Once
	machineID   string
)

// GetMachineID returns an app-scoped hash of the host's machine id, or ""
// when neither the OS id nor the DMI board serial can be read.
// GetMachineID 返回本机机器码的应用级哈希，均读取失败时返回空字符串
func GetMachineID() string {
	machineOnce.Do(func() {
		if id, err := machineid.ProtectedID(machineAppID); err == nil && id != "" {
			machineID = id
			return
		}
		// 容器中常缺少 /etc/machine-id，退回主板序列号
		if raw, err := os.ReadFile("/sys/class/dmi/id/board_serial"); err == nil {
			if serial := strings.TrimSpace(string(raw)); serial != "" {
				machineID = protect(machineAppID, serial)
			}
		}
	})
	return machineID
}

// protect 与 machineid.ProtectedID 相同的 HMAC-SHA256 方式
func protect(appID, id string) string {
	mac := hmac.New(sha256.New, []byte(id))
	mac.Write([]byte(appID))
	return hex.EncodeToString(mac.Sum(nil))
}
