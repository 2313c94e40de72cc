package lspsrv

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/rocket-tycoon/rocketindex/internal/liveindex"
)

// handleCodeAction offers "Organize opens" when ≥2 open statements exist
// and their order differs from canonical (sorted by import depth — dot
// count — ascending, then alphabetical), and "Add open X" for each
// unresolved reference whose enclosing module isn't already opened.
func (s *Server) handleCodeAction(_ context.Context, req *jsonrpc2.Request) (any, error) {
	var params protocol.CodeActionParams
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}

	path := uriToPath(params.TextDocument.URI)
	live, solver := s.indexSnapshot()
	if live == nil {
		return nil, nil
	}

	var actions []protocol.CodeAction

	opens := live.OpensForFile(path)
	if len(opens) >= 2 {
		canonical := canonicalOpenOrder(opens)
		if !sameOrder(opens, canonical) {
			actions = append(actions, organizeOpensAction(params.TextDocument.URI, opens, canonical))
		}
	}

	if solver != nil {
		for _, candidate := range unresolvedCandidates(live, path) {
			module := containerName(candidate)
			if module == "" || containsString(opens, module) {
				continue
			}
			actions = append(actions, protocol.CodeAction{
				Title: fmt.Sprintf("Add open %s", module),
				Kind:  protocol.QuickFix,
			})
		}
	}

	return actions, nil
}

func canonicalOpenOrder(opens []string) []string {
	sorted := append([]string{}, opens...)
	sort.Slice(sorted, func(i, j int) bool {
		di, dj := strings.Count(sorted[i], "."), strings.Count(sorted[j], ".")
		if di != dj {
			return di < dj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func organizeOpensAction(uri protocol.DocumentURI, current, canonical []string) protocol.CodeAction {
	newText := strings.Join(canonical, "\n") + "\n"
	return protocol.CodeAction{
		Title: "Organize opens",
		Kind:  protocol.SourceOrganizeImports,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentURI][]protocol.TextEdit{
				uri: {{
					Range:   protocol.Range{Start: protocol.Position{Line: 0}, End: protocol.Position{Line: uint32(len(current))}},
					NewText: newText,
				}},
			},
		},
	}
}

// unresolvedCandidates reports every reference in file that fails
// resolution — candidates for an "Add open" suggestion.
func unresolvedCandidates(live *liveindex.Index, path string) []string {
	var unresolved []string
	for _, ref := range live.ReferencesInFile(path) {
		if strings.Contains(ref.Name, ".") && live.Get(ref.Name) == nil {
			unresolved = append(unresolved, ref.Name)
		}
	}
	return unresolved
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
