// See kind.go for the token vocabulary and token.go for the Token type.
package token
