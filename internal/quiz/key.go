package quiz

import "strings"

// History keys must stay byte-stable across releases: changing the derivation
// orphans every stored attempt. Both functions below are the only place keys
// are built.

// DeriveKey builds the history key for a single quiz file. A question-count
// limit marks the key as a distinct "quick" variant so shortened runs never
// share history with full runs of the same file.
func DeriveKey(folderPath, filename string, limit int) string {
	key := filename
	if folderPath != "" {
		key = folderPath + "/" + filename
	}
	if limit > 0 {
		key += "__quick__"
	}
	return key
}

// DeriveFolderKey builds the history key for a combined-folder session.
// The unlimited variant uses the fixed __full_test__ marker; limited variants
// encode the mode name lowercased with underscores (e.g. "Random 20" becomes
// folder/__random_20__).
func DeriveFolderKey(folderPath string, limit int, modeName string) string {
	marker := "__full_test__"
	if limit > 0 && modeName != "" {
		marker = "__" + strings.ReplaceAll(strings.ToLower(modeName), " ", "_") + "__"
	}
	return folderPath + "/" + marker
}
