package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var failureMessages = map[string]string{
	ReasonProviderError:    "Sign-in was cancelled or refused by Google.",
	ReasonInvalidState:     "Your sign-in session expired. Please try again.",
	ReasonMissingCode:      "Google did not return an authorization code.",
	ReasonExchangeFailed:   "We could not verify your Google sign-in.",
	ReasonStoreUnavailable: "We could not save your sign-in. Please try again shortly.",
	ReasonInternal:         "Something went wrong while signing you in.",
}

const loginPageHead = `<!DOCTYPE html><html><head><title>Sign in</title></head><body><h1>Sign in</h1>`

func (h *Handler) loginPage(c *gin.Context) {
	body := loginPageHead
	// Only known reasons are rendered, so nothing from the query reaches the page.
	if msg, ok := failureMessages[c.Query("error")]; ok {
		body += `<p class="error">` + msg + `</p>`
	}
	body += `<p><a href="/auth/start">Sign in with Google</a></p></body></html>`

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}
