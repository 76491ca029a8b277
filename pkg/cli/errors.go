package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/envelope"
)

// errEndpointIndex is returned for index arguments that are not numbers.
var errEndpointIndex = errors.New("endpoint index must be a number (see 'ourohead list')")

// formatError renders err for the terminal. Editor errors are localized and
// validation problems are listed one per line.
func formatError(err error) string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(envelope.Localize(err, displayTag()))

	var verr *definition.ValidationError
	if errors.As(err, &verr) {
		writeProblems(&b, verr.Problems)
	} else if re, ok := envelope.AsRemoteError(err); ok {
		if problems, derr := envelope.DecodeDetails[[]definition.Problem](re); derr == nil {
			writeProblems(&b, problems)
		}
	}

	if isConnectionError(err) {
		fmt.Fprintf(&b, `

Suggestions:
  • Start the editor: ourohead serve
  • Check the editor URL: %s
  • Work offline on a file: ourohead --file definition.json ...`, editorURL)
	}
	return b.String()
}

func writeProblems(b *strings.Builder, problems []definition.Problem) {
	for _, p := range problems {
		fmt.Fprintf(b, "\n  • %s: %s", p.Field, p.Message)
	}
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	var urlErr *url.Error
	return errors.As(err, &opErr) || errors.As(err, &urlErr)
}

// displayTag picks the language for messages: --lang, then $LANG.
func displayTag() language.Tag {
	lang := displayLang
	if lang == "" {
		lang = os.Getenv("LANG")
	}
	lang, _, _ = strings.Cut(lang, ".")
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return language.Korean
	}
	return tag
}

func jsonRaw(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return data, nil
}
