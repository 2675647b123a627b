package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidBody is returned when a request body is not a JSON object.
	ErrInvalidBody = zerr.New("Invalid post body (should be a JSON object)")

	// ErrMissingFiles is returned when a request omits the files list or sets it to null.
	ErrMissingFiles = zerr.New("Please include files to invalidate")

	// ErrInvalidGrep is returned when the grep pattern of a test run does not compile.
	ErrInvalidGrep = zerr.New("Invalid grep pattern")

	// ErrRunInProgress is returned when a test run is requested while another one is still executing.
	ErrRunInProgress = zerr.New("A test run is already in progress")

	// ErrRunNotFound is returned when a run record is not present in the history.
	ErrRunNotFound = zerr.New("Test run not found")

	// ErrInternal is returned when run configuration fails unexpectedly.
	ErrInternal = zerr.New("server error")

	// ErrModuleNotFound is returned when a module file does not exist on disk.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrModuleIsDirectory is returned when a module path refers to a directory.
	ErrModuleIsDirectory = zerr.New("module path is a directory")

	// ErrModuleReadFailed is returned when a module file cannot be read.
	ErrModuleReadFailed = zerr.New("failed to read module")

	// ErrModuleSyntax is returned when a module fails syntax validation.
	ErrModuleSyntax = zerr.New("module has syntax errors")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when the loaded configuration fails validation.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrSetupFailed is returned when the test environment setup command fails.
	ErrSetupFailed = zerr.New("failed to initialize test environment")

	// ErrEngineCommandMissing is returned when the test engine has no command configured.
	ErrEngineCommandMissing = zerr.New("test engine command is empty")

	// ErrTestFileFailed is returned when a test file exits unsuccessfully.
	ErrTestFileFailed = zerr.New("test file failed")

	// ErrClientRequestFailed is returned when the client cannot reach the server.
	ErrClientRequestFailed = zerr.New("request to lucifer server failed")

	// ErrClientResponseInvalid is returned when the server answers with an unreadable body.
	ErrClientResponseInvalid = zerr.New("invalid response from lucifer server")

	// ErrClientRejected is returned when the server answers with a non-success status.
	ErrClientRejected = zerr.New("lucifer server rejected the request")

	// ErrRunFailed is returned by the client when an awaited test run did not pass.
	ErrRunFailed = zerr.New("test run failed")

	// ErrServerFailed is returned when the HTTP server stops with an error.
	ErrServerFailed = zerr.New("http server failed")
)
