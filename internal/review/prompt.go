package review

// Tool names the engine is allowed to invoke during a review session.
const (
	// ToolRead reads a single file.
	ToolRead = "Read"
	// ToolGlob searches for files by glob pattern.
	ToolGlob = "Glob"
	// ToolGrep searches file contents by pattern.
	ToolGrep = "Grep"
	// ToolDelegate hands a sub-task to a named sub-capability.
	ToolDelegate = "Task"
)

// SecurityAgentName identifies the security-focused sub-capability.
const SecurityAgentName = "security-reviewer"

// DefaultMaxTurns caps the session's reasoning turns so a review always
// terminates, even when the engine never reaches a result.
const DefaultMaxTurns = 50

// DefaultReviewPrompt is the task instruction for the main review session.
const DefaultReviewPrompt = `You are a senior code reviewer. Analyze the code in the current directory.

Review across four dimensions:
1. Bugs: logic errors, crashes, wrong behavior, silent failures
2. Security: injection, auth bypass, secrets, data exposure
3. Performance: inefficient algorithms, resource leaks, unnecessary work
4. Code quality: error handling, edge cases, maintainability

## Your workflow:
1. Use Glob to map out the project structure.
2. Read the most important files in full - entry points, core logic, anything handling external input.
3. Use Grep to trace suspicious patterns across the codebase.
4. Delegate security-sensitive areas to the security-reviewer agent for a focused pass.

Be specific: include exact file paths and line numbers for every issue.
Only report actual problems, not hypothetical ones.`

// securityAgentPrompt is the instruction for the security sub-capability.
// It gets a narrower toolset: read and search only, no further delegation.
const securityAgentPrompt = `You are a security analyst reviewing code for vulnerabilities.

Focus on:
- Injection: SQL, command, path traversal, template injection
- Authentication and authorization flaws
- Sensitive data exposure: hardcoded secrets, logged credentials, weak crypto
- Dependency risks: known-vulnerable or unmaintained packages

Read the relevant files in full before judging. Report each vulnerability
with its file path, line number, and a concrete remediation.`

// securityAgentDescription summarizes when the engine should delegate.
const securityAgentDescription = "Focused security analysis of code for injection, auth, data-exposure, and dependency risks"
