// Package metrics 定义服务的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ffs"

var (
	// UploadedFiles 上传成功的文件数，dedup=hit/miss
	UploadedFiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploaded_files_total",
		Help:      "Files accepted by the upload pipeline.",
	}, []string{"dedup"})

	// UploadedBytes 上传的逻辑字节数
	UploadedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploaded_bytes_total",
		Help:      "Logical bytes accepted by the upload pipeline.",
	})

	// QuotaRejections 因配额不足被拒绝的上传请求
	QuotaRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quota_rejections_total",
		Help:      "Upload requests rejected for exceeding the quota.",
	})

	// UploadsWaiting 正在排队或执行的上传请求
	UploadsWaiting = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "uploads_waiting",
		Help:      "Upload requests holding or waiting for their user's write lane.",
	})

	// SharesIssued 签发的分享链接
	SharesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shares_issued_total",
		Help:      "Share links issued.",
	})

	// Redemptions 分享链接兑换结果，outcome=ok/not_found/revoked/expired
	Redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "share_redemptions_total",
		Help:      "Share redemption attempts by outcome.",
	}, []string{"outcome"})

	// MailFailures 通知邮件发送失败
	MailFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_failures_total",
		Help:      "Notification emails that failed to send.",
	})

	// BackgroundJobs 后台任务执行结果，outcome=ok/failed
	BackgroundJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "background_jobs_total",
		Help:      "Background jobs run by the worker pool.",
	}, []string{"job", "outcome"})

	// BackgroundQueued 等待执行的后台任务
	BackgroundQueued = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "background_jobs_queued",
		Help:      "Background jobs waiting for a worker.",
	})

	// StoredBlobs 存储的去重后对象数
	StoredBlobs = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stored_blobs",
		Help:      "Distinct blobs held by the blob store.",
	})

	// StoredBytes 去重后的物理字节数
	StoredBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stored_bytes",
		Help:      "Physical bytes held by the blob store after deduplication.",
	})

	// LogicalBytes 所有未删除文件的逻辑字节数
	LogicalBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "logical_bytes",
		Help:      "Logical bytes of all non-deleted files.",
	})
)
