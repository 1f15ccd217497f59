// Package pathcrypt obfuscates file paths before they are sent to the search
// backend and restores the paths it returns.
//
// A path is split on '.', '/' and '\'. Each name between separators is
// encrypted on its own, so "src/main.go" becomes "<tok>/<tok>.<tok>". The
// same name always produces the same token under one key, which lets the
// backend match glob filters against stored paths.
//
// Subkeys are derived from the master key K as SHA256(K || 0x00) for the MAC
// and SHA256(K || 0x01) for AES-256. A token is
//
//	base64url_nopad(prefix || AES-256-CTR(iv = prefix || 0^10, name || NUL*pad))
//
// where prefix = HMAC-SHA256(name)[:6] and pad brings the name to a multiple
// of 4 bytes.
//
// When no key is configured New returns NoOp and every function is the identity.
package pathcrypt
