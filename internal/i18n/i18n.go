// Package i18n translates user-facing messages. English, Portuguese and
// Dutch are bundled.
package i18n

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale answers requests that name no supported language.
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator looks up messages by key and base language.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a translator with the bundled messages.
func NewTranslator() *Translator {
	return &Translator{messages: getDefaultMessages()}
}

// GetTranslator returns the shared translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Supports reports whether locale has bundled messages.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// Translate returns the message for key in locale, then in DefaultLocale,
// then the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// GetLocale picks the supported language with the highest q-value from the
// Accept-Language header. Regions are ignored, so "pt-BR" selects "pt".
func GetLocale(c *gin.Context) string {
	return NegotiateLocale(c.GetHeader(AcceptLanguageHeader), GetTranslator())
}

// NegotiateLocale is GetLocale for a raw header value.
func NegotiateLocale(header string, t *Translator) string {
	type candidate struct {
		lang string
		q    float64
	}
	var candidates []candidate
	for _, part := range strings.Split(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		lang, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(tag)), "-")
		if lang == "" || !t.Supports(lang) {
			continue
		}
		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			q = parsed
		}
		if q > 0 {
			candidates = append(candidates, candidate{lang: lang, q: q})
		}
	}
	if len(candidates) == 0 {
		return DefaultLocale
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].q > candidates[j].q })
	return candidates[0].lang
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			"error.invalid_request":           "Invalid request",
			"error.invalid_request_body":      "Invalid request body",
			"error.internal_error":            "An unexpected error occurred",
			"error.unauthorized":              "Unauthorized",
			"error.api_key_required":          "API key is required",
			"error.invalid_api_key":           "Invalid API key",
			"error.forbidden":                 "Forbidden",
			"error.not_found":                 "Not found",
			"error.rate_limit_exceeded":       "Too many requests, please try again later",
			"error.conflict":                  "Conflict",
			"error.invalid_token":             "Invalid or expired token",
			"error.token_required":            "Authentication token is required",
			"error.timeout":                   "Request timed out",
			"error.validation.dimension":      "Area and item dimensions must be positive integers",
			"error.infeasible_item":           "An item cannot fit in the area in any orientation",
			"error.search_limit":              "Request exceeds the configured area or item limit",
			"error.layout_not_found":          "Layout not found",
			"error.import_failed":             "The item file could not be imported",
			"error.unsupported_format":        "Unsupported file format, use .csv or .xlsx",
			"error.unsupported_render_format": "Unsupported render format, use text, pdf or dxf",
			"error.payload_too_large":         "Uploaded file exceeds the size limit",
			"error.storage_unavailable":       "Layout storage is not available",
			"error.history_unavailable":       "Layout history is not recorded",
			"error.idempotency_key_reused":    "Idempotency key was already used with a different request",
		},
		"pt": {
			"error.invalid_request":           "Requisição inválida",
			"error.invalid_request_body":      "Corpo da requisição inválido",
			"error.internal_error":            "Ocorreu um erro inesperado",
			"error.unauthorized":              "Não autorizado",
			"error.api_key_required":          "Chave de API é obrigatória",
			"error.invalid_api_key":           "Chave de API inválida",
			"error.forbidden":                 "Proibido",
			"error.not_found":                 "Não encontrado",
			"error.rate_limit_exceeded":       "Muitas requisições, tente novamente mais tarde",
			"error.conflict":                  "Conflito",
			"error.invalid_token":             "Token inválido ou expirado",
			"error.token_required":            "Token de autenticação é obrigatório",
			"error.timeout":                   "Tempo da requisição esgotado",
			"error.validation.dimension":      "As dimensões da área e dos itens devem ser inteiros positivos",
			"error.infeasible_item":           "Um item não cabe na área em nenhuma orientação",
			"error.search_limit":              "A requisição excede o limite de área ou de itens",
			"error.layout_not_found":          "Layout não encontrado",
			"error.import_failed":             "Não foi possível importar o arquivo de itens",
			"error.unsupported_format":        "Formato de arquivo não suportado, use .csv ou .xlsx",
			"error.unsupported_render_format": "Formato de renderização não suportado, use text, pdf ou dxf",
			"error.payload_too_large":         "O arquivo enviado excede o limite de tamanho",
			"error.storage_unavailable":       "O armazenamento de layouts não está disponível",
			"error.history_unavailable":       "O histórico de layouts não é registrado",
			"error.idempotency_key_reused":    "A chave de idempotência já foi usada com outra requisição",
		},
		"nl": {
			"error.invalid_request":           "Ongeldig verzoek",
			"error.invalid_request_body":      "Ongeldige aanvraag body",
			"error.internal_error":            "Er is een onverwachte fout opgetreden",
			"error.unauthorized":              "Niet geautoriseerd",
			"error.api_key_required":          "API-sleutel is vereist",
			"error.invalid_api_key":           "Ongeldige API-sleutel",
			"error.forbidden":                 "Verboden",
			"error.not_found":                 "Niet gevonden",
			"error.rate_limit_exceeded":       "Te veel verzoeken, wacht even en doe het later opnieuw",
			"error.conflict":                  "Conflict",
			"error.invalid_token":             "Ongeldig of verlopen token",
			"error.token_required":            "Authenticatietoken is vereist",
			"error.timeout":                   "Time-out van het verzoek",
			"error.validation.dimension":      "Afmetingen van gebied en items moeten positieve gehele getallen zijn",
			"error.infeasible_item":           "Een item past in geen enkele oriëntatie in het gebied",
			"error.search_limit":              "Het verzoek overschrijdt de limiet voor gebied of items",
			"error.layout_not_found":          "Layout niet gevonden",
			"error.import_failed":             "Het itembestand kon niet worden geïmporteerd",
			"error.unsupported_format":        "Niet-ondersteund bestandsformaat, gebruik .csv of .xlsx",
			"error.unsupported_render_format": "Niet-ondersteund weergaveformaat, gebruik text, pdf of dxf",
			"error.payload_too_large":         "Het geüploade bestand overschrijdt de maximale grootte",
			"error.storage_unavailable":       "Layoutopslag is niet beschikbaar",
			"error.history_unavailable":       "Layoutgeschiedenis wordt niet vastgelegd",
			"error.idempotency_key_reused":    "Idempotentiesleutel is al gebruikt voor een ander verzoek",
		},
	}
}
