package services

import (
	"embed"

	"github.com/dmitrijs2005/primepost/internal/client/models"
)

//go:embed terms/*.txt
var bundledTerms embed.FS

// BundledTerms returns the text shipped with the client for t.
func BundledTerms(t models.TermsType) string {
	b, err := bundledTerms.ReadFile("terms/" + string(t) + ".txt")
	if err != nil {
		b, _ = bundledTerms.ReadFile("terms/" + string(models.TermsCustomer) + ".txt")
	}
	return string(b)
}
