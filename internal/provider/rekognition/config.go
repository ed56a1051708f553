package rekognition

// Config holds configuration for AWS Rekognition provider
type Config struct {
	// Region is the AWS region where Rekognition service will be used (e.g., "us-east-1")
	Region string

	// MinFaceConfidence drops faces Rekognition is less sure about, in [0, 1]
	MinFaceConfidence float64
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Region:            "us-east-1",
		MinFaceConfidence: 0.9,
	}
}
