package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageFile     = "file"
	StorageDatabase = "database"
	StorageMinio    = "minio"
	StorageOSS      = "oss"
)

const (
	AIModeMock = "mock"
	AIModeLive = "live"
)

const (
	SecretsEnv     = "env"
	SecretsKeyring = "keyring"
)

// 用户记录以 JSON 文件/对象形式保存时的后缀
const RecordExt = ".json"

const MaxUserIDLength = 128

// 摘要中展示的最近签到条数
const RecentCheckinsLimit = 3
