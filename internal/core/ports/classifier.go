package ports

// TestFileClassifier decides whether a file contains executable test definitions.
//
// Implementations must be pure, synchronous and safe for concurrent use.
//
//go:generate mockgen -source=classifier.go -destination=mocks/mock_classifier.go -package=mocks
type TestFileClassifier interface {
	IsTestFile(absPath string) bool
}
