package ports

// PathResolver turns request paths into absolute file identifiers.
//
//go:generate mockgen -destination=mocks/mock_resolver.go -package=mocks -source=resolver.go
type PathResolver interface {
	// Root returns the absolute root directory.
	Root() string
	// Resolve joins rel against the root. It does not check that the file exists.
	Resolve(rel string) string
	// IsSelf reports whether abs refers to the running server's own files.
	IsSelf(abs string) bool
	// Contains reports whether abs lies inside the root directory.
	Contains(abs string) bool
}
