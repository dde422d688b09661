package blobstore

// Provider identifies the object-storage backend.
type Provider string

const (
	ProviderMinIO Provider = "minio"
)

const (
	// DefaultPartSize is the multipart chunk size: 25 MiB.
	DefaultPartSize = 25 * 1024 * 1024

	// DefaultMultipartThreshold is the object size above which transfers
	// are split into parts: 25 MiB.
	DefaultMultipartThreshold = 25 * 1024 * 1024

	// DefaultConcurrentParts is how many parts of a single transfer may
	// move at once.
	DefaultConcurrentParts = 10
)

// Config holds all settings needed to connect to an object-storage backend.
type Config struct {
	// Provider is the storage backend (e.g. ProviderMinIO).
	Provider Provider

	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO, "s3.eu-central-1.wasabisys.com" for Wasabi.
	Endpoint string

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends. Leave empty for local MinIO.
	Region string

	// Bucket is the bucket all objects are stored in.
	Bucket string

	// PartSize is the multipart chunk size in bytes.
	PartSize int64

	// MultipartThreshold is the object size in bytes above which a
	// transfer is split into parts. Smaller objects move in one request.
	MultipartThreshold int64

	// ConcurrentParts caps how many parts of one transfer move at once.
	ConcurrentParts int
}

// Configured reports whether the config carries enough to reach a backend.
func (c *Config) Configured() bool {
	return c != nil && c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// DefaultConfig returns a config with the standard transfer tuning applied.
func DefaultConfig(endpoint, accessKey, secretKey, bucket string) *Config {
	return &Config{
		Provider:           ProviderMinIO,
		Endpoint:           endpoint,
		AccessKey:          accessKey,
		SecretKey:          secretKey,
		Bucket:             bucket,
		PartSize:           DefaultPartSize,
		MultipartThreshold: DefaultMultipartThreshold,
		ConcurrentParts:    DefaultConcurrentParts,
	}
}
