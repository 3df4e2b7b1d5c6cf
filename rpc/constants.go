package rpc

// Method name constants, categorized per spec.md §4.F. These are stable
// identifiers; Dispatcher consumers use them as map keys instead of
// hand-rolled string literals scattered through call sites.
const (
	// Lifecycle
	MethodInitialize   = "initialize"
	MethodInitialized  = "initialized"
	MethodShutdown     = "shutdown"
	MethodExit         = "exit"
	MethodSetTrace     = "$/setTrace"
	MethodLogTrace     = "$/logTrace"

	// Text document synchronization and language features
	MethodDidOpen             = "textDocument/didOpen"
	MethodDidChange           = "textDocument/didChange"
	MethodDidSave             = "textDocument/didSave"
	MethodDidClose            = "textDocument/didClose"
	MethodCompletion          = "textDocument/completion"
	MethodHover               = "textDocument/hover"
	MethodSignatureHelp       = "textDocument/signatureHelp"
	MethodDefinition          = "textDocument/definition"
	MethodReferences          = "textDocument/references"
	MethodDocumentSymbol      = "textDocument/documentSymbol"
	MethodCodeAction          = "textDocument/codeAction"
	MethodFormatting          = "textDocument/formatting"
	MethodRename              = "textDocument/rename"
	MethodPublishDiagnostics  = "textDocument/publishDiagnostics"

	// Workspace
	MethodWorkspaceSymbol         = "workspace/symbol"
	MethodExecuteCommand          = "workspace/executeCommand"
	MethodDidChangeConfiguration  = "workspace/didChangeConfiguration"
	MethodDidChangeWatchedFiles   = "workspace/didChangeWatchedFiles"
	MethodApplyEdit               = "workspace/applyEdit"

	// Window
	MethodShowMessage         = "window/showMessage"
	MethodShowMessageRequest  = "window/showMessageRequest"
	MethodLogMessage          = "window/logMessage"
	MethodWorkDoneProgress    = "window/workDoneProgress/create"

	// Client
	MethodRegisterCapability   = "client/registerCapability"
	MethodUnregisterCapability = "client/unregisterCapability"

	// Meta
	MethodCancelRequest = "$/cancelRequest"
	MethodProgress      = "$/progress"
)
