// Package i18n resolves request locales and localizes web message keys.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// Localizer resolves a message key for one resolved locale.
type Localizer func(key string) string

var supported = []language.Tag{
	language.English,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supported)

var messages = map[string]map[string]string{
	"en": {
		"web.vote.failed":                 "Vote failed. Please try again.",
		"web.vote.sign_in_required":       "Sign in to vote.",
		"web.comment.sign_in_required":    "Sign in to comment.",
		"web.comment.create_failed":       "Comment could not be posted. Please try again.",
		"web.comment.delete_failed":       "Comment could not be deleted. Please try again.",
		"web.comment.pending":             "A comment for this post is already being submitted.",
		"web.comment.deleted_author":      "[deleted]",
		"web.invite.accepted":             "Accepted",
		"web.invite.declined":             "Declined",
		"web.invite.inactive":             "Invitation no longer active",
		"web.invite.action_failed":        "Invitation update failed. Please try again.",
		"web.invite.pending":              "This invitation is already being updated.",
		"error.web.message.unauthorized":  "Authentication required",
		"error.web.message.not_found":     "Not found",
		"error.web.message.unavailable":   "Service unavailable",
		"error.web.message.invalid_input": "Invalid request",
		"error.web.message.forbidden":     "Access denied",
	},
	"pt-BR": {
		"web.vote.failed":              "Falha ao votar. Tente novamente.",
		"web.vote.sign_in_required":    "Entre para votar.",
		"web.comment.sign_in_required": "Entre para comentar.",
		"web.comment.create_failed":    "Não foi possível publicar o comentário. Tente novamente.",
		"web.comment.delete_failed":    "Não foi possível excluir o comentário. Tente novamente.",
		"web.comment.deleted_author":   "[excluído]",
		"web.invite.accepted":          "Aceito",
		"web.invite.declined":          "Recusado",
		"web.invite.inactive":          "Convite não está mais ativo",
		"web.invite.action_failed":     "Falha ao atualizar o convite. Tente novamente.",
	},
}

// ResolveLanguage returns the effective request language out of the
// supported set, defaulting to English.
func ResolveLanguage(r *http.Request) string {
	if r == nil {
		return "en"
	}
	accept := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if accept == "" {
		return "en"
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, index, _ := matcher.Match(tags...)
	if index < 0 || index >= len(supported) {
		return "en"
	}
	if supported[index] == language.BrazilianPortuguese {
		return "pt-BR"
	}
	return "en"
}

// NewLocalizer builds a localizer for a resolved language string.
//
// Missing keys fall back to English, then to the key itself so untranslated
// messages stay debuggable rather than rendering blank.
func NewLocalizer(lang string) Localizer {
	lang = strings.TrimSpace(lang)
	return func(key string) string {
		key = strings.TrimSpace(key)
		if key == "" {
			return ""
		}
		if table, ok := messages[lang]; ok {
			if message, ok := table[key]; ok {
				return message
			}
		}
		if message, ok := messages["en"][key]; ok {
			return message
		}
		return key
	}
}

// T localizes a key with a nil-safe localizer.
func T(loc Localizer, key string) string {
	if loc == nil {
		loc = NewLocalizer("en")
	}
	return loc(key)
}
