// Package model defines the data structures used throughout the application.
package model

// ENUMS IN GO:
// Go has no enum keyword. The idiomatic substitute is a named string type
// plus a set of typed constants. The named type gives us a place to hang a
// Valid() method, and the string representation matches what we store in the
// database (the tables carry CHECK constraints with the same value sets, so
// an invalid value is rejected twice: once here, once by the store).

// AuthProvider identifies how a user account authenticates.
type AuthProvider string

const (
	AuthProviderGoogle   AuthProvider = "google"
	AuthProviderFacebook AuthProvider = "facebook"
	AuthProviderEmail    AuthProvider = "email"
)

// Valid reports whether p is one of the known auth providers.
func (p AuthProvider) Valid() bool {
	switch p {
	case AuthProviderGoogle, AuthProviderFacebook, AuthProviderEmail:
		return true
	}
	return false
}

// AIModel identifies which AI model a conversation (or a user's preference)
// is bound to.
type AIModel string

const (
	AIModelClaudeSonnet AIModel = "claude-sonnet"
	AIModelGeminiFlash  AIModel = "gemini-2.5-flash"
	AIModelGPT4         AIModel = "gpt-4"
)

// Valid reports whether m is one of the supported AI models.
func (m AIModel) Valid() bool {
	switch m {
	case AIModelClaudeSonnet, AIModelGeminiFlash, AIModelGPT4:
		return true
	}
	return false
}

// MessageRole identifies who authored a message in a conversation.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether r is a known message role.
func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// CodingLanguage is the programming language of a project or code snippet
// (and a user's preferred language).
type CodingLanguage string

const (
	LangPython     CodingLanguage = "python"
	LangJavaScript CodingLanguage = "javascript"
	LangTypeScript CodingLanguage = "typescript"
	LangGo         CodingLanguage = "go"
	LangRust       CodingLanguage = "rust"
	LangJava       CodingLanguage = "java"
	LangC          CodingLanguage = "c"
	LangCPP        CodingLanguage = "cpp"
	LangCSharp     CodingLanguage = "csharp"
	LangRuby       CodingLanguage = "ruby"
	LangPHP        CodingLanguage = "php"
	LangSwift      CodingLanguage = "swift"
	LangKotlin     CodingLanguage = "kotlin"
)

// codingLanguages is the canonical value set, used by Valid() and by the
// schema CHECK constraint builder in the sqlite package.
var codingLanguages = []CodingLanguage{
	LangPython, LangJavaScript, LangTypeScript, LangGo, LangRust,
	LangJava, LangC, LangCPP, LangCSharp, LangRuby, LangPHP,
	LangSwift, LangKotlin,
}

// Valid reports whether l is one of the supported coding languages.
func (l CodingLanguage) Valid() bool {
	for _, known := range codingLanguages {
		if l == known {
			return true
		}
	}
	return false
}

// CodingLanguages returns the full set of supported coding languages.
func CodingLanguages() []CodingLanguage {
	out := make([]CodingLanguage, len(codingLanguages))
	copy(out, codingLanguages)
	return out
}
