package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler serves the swagger UI for the document at specURL, with every
// tag expanded and the bearer token kept across reloads.
func Handler(specURL string) http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(specURL),
		httpSwagger.DocExpansion("list"),
		httpSwagger.PersistAuthorization(true),
		httpSwagger.DeepLinking(true),
	)
}
