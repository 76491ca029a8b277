package envelope

import (
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// supportedLanguages lists display languages; the first entry is the default.
var supportedLanguages = []language.Tag{language.Korean, language.English}

var languageMatcher = language.NewMatcher(supportedLanguages)

// englishCatalog maps each Korean display text to its English form.
var englishCatalog = map[string]string{
	msgMalformedResponse:  "Invalid API response shape.",
	msgNotAnEnvelope:      "Not an APIResponse shape.",
	msgMissingSuccessData: "Success response without data.",
	msgRequestFailed:      "API request failed",
	msgInvalidResponse:    "Invalid response.",
	msgNoMessage:          "No message.",
}

func init() {
	for key, en := range englishCatalog {
		if err := message.SetString(language.English, key, en); err != nil {
			panic("envelope: register english catalog: " + err.Error())
		}
	}
}

// printerFor returns a printer for the supported language closest to tag.
func printerFor(tag language.Tag) *message.Printer {
	_, idx, _ := languageMatcher.Match(tag)
	return message.NewPrinter(supportedLanguages[idx])
}

// Localize renders err for display in the language closest to tag. Korean
// is the default. Errors that did not come from this package are returned
// as err.Error().
func Localize(err error, tag language.Tag) string {
	if err == nil {
		return ""
	}
	p := printerFor(tag)
	if re, ok := AsRemoteError(err); ok {
		msg := re.Message
		if msg == "" {
			msg = p.Sprintf(msgRequestFailed)
		}
		return "[" + re.DisplayCode() + "] " + msg
	}
	for _, sentinel := range []error{ErrMalformedResponse, ErrNotAnEnvelope, ErrMissingSuccessData} {
		if errors.Is(err, sentinel) {
			return p.Sprintf(sentinel.Error())
		}
	}
	return err.Error()
}

// LocalizedMessage is ExtractMessage with its fallback texts translated.
func LocalizedMessage(raw []byte, tag language.Tag) string {
	rec, ok := parseRecord(raw)
	if !ok {
		return printerFor(tag).Sprintf(msgInvalidResponse)
	}
	if msg := rec["message"]; truthy(msg) {
		return text(msg)
	}
	return printerFor(tag).Sprintf(msgNoMessage)
}
