package lspsrv

import (
	"context"
	"strings"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/rocket-tycoon/rocketindex/internal/liveindex"
)

var keywordCompletions = []string{
	"let", "if", "else", "match", "for", "while", "return", "func", "class",
	"interface", "import", "open", "use", "namespace", "module",
}

func (s *Server) handleCompletion(_ context.Context, req *jsonrpc2.Request) (any, error) {
	var params protocol.CompletionParams
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}

	path := uriToPath(params.TextDocument.URI)
	text, ok := s.documentText(path)
	if !ok {
		return protocol.CompletionList{}, nil
	}

	live, _ := s.indexSnapshot()
	if live == nil {
		return protocol.CompletionList{}, nil
	}

	line := int(params.Position.Line)
	col := int(params.Position.Character)

	isDotTrigger := params.Context != nil && params.Context.TriggerCharacter == "."
	if isDotTrigger {
		if items := s.memberCompletions(live, text, line, col); items != nil {
			return protocol.CompletionList{Items: items}, nil
		}
	}

	word := identifierAt(text, line, col)
	items := make([]protocol.CompletionItem, 0, 64)
	for _, kw := range keywordCompletions {
		if word == "" || strings.HasPrefix(kw, word) {
			items = append(items, protocol.CompletionItem{Label: kw, Kind: protocol.CompletionItemKindKeyword})
		}
	}
	for _, name := range live.AllNamesForFuzzy() {
		if word != "" && !strings.HasPrefix(strings.ToLower(name), strings.ToLower(word)) {
			continue
		}
		items = append(items, protocol.CompletionItem{Label: name, Kind: protocol.CompletionItemKindText})
		if len(items) >= 50 {
			break
		}
	}
	if len(items) > 50 {
		items = items[:50]
	}
	return protocol.CompletionList{Items: items}, nil
}

// memberCompletions resolves the expression before the cursor's dot to a
// type name and yields the type cache's members for it. Returns nil (not
// an empty slice) when no type could be resolved, signaling the caller to
// fall through to keyword/symbol completion instead.
func (s *Server) memberCompletions(live *liveindex.Index, text string, line, col int) []protocol.CompletionItem {
	expr := expressionBeforeDot(text, line, col-1)
	if expr == "" {
		return nil
	}

	typeName := expr
	if _, ok := live.GetTypeMembers(expr); !ok {
		if sym := live.Get(expr); sym != nil && sym.Signature != "" {
			typeName = innermostType(sym.Signature)
		} else if sym != nil {
			typeName = sym.Name
		}
	}

	members, ok := live.GetTypeMembers(typeName)
	if !ok {
		return nil
	}

	items := make([]protocol.CompletionItem, 0, len(members))
	for _, m := range members {
		items = append(items, protocol.CompletionItem{
			Label:  m.Member,
			Kind:   memberCompletionKind(m.Kind),
			Detail: m.MemberType,
		})
	}
	return items
}

func memberCompletionKind(kind string) protocol.CompletionItemKind {
	switch kind {
	case "Method":
		return protocol.CompletionItemKindMethod
	case "Property":
		return protocol.CompletionItemKindProperty
	case "Field":
		return protocol.CompletionItemKindField
	case "Event":
		return protocol.CompletionItemKindEvent
	default:
		return protocol.CompletionItemKindText
	}
}
