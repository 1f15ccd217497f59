package message

// Position is a line and column inside a file.
type Position struct {
	Line   uint32
	Column uint32
}

// Range spans two positions in a file.
type Range struct {
	Start Position
	End   Position
}

// CodeBlock is a region of a file returned by a search. The backend fills
// one or more of the four content fields depending on its version.
type CodeBlock struct {
	Path             string
	Range            Range
	Contents         []byte
	OverrideContents []byte
	FileContents     []byte
	OriginalContents []byte
}

// DisplayText returns the first non-empty content field in the order
// Contents, OverrideContents, FileContents, OriginalContents.
func (b CodeBlock) DisplayText() string {
	for _, c := range [][]byte{b.Contents, b.OverrideContents, b.FileContents, b.OriginalContents} {
		if len(c) > 0 {
			return string(c)
		}
	}
	return ""
}

// CodeResult is one scored search hit. Score is decoded from either the
// 64-bit or the 32-bit wire form.
type CodeResult struct {
	CodeBlock CodeBlock
	Score     float64
}

// ClassifiedResult is the extra wrapper SemSearch puts around each CodeResult.
type ClassifiedResult struct {
	Result CodeResult
}

// RepositoryInfo identifies the repository a request targets.
type RepositoryInfo struct {
	RelativeWorkspacePath string
	RemoteURL             string
	RemoteName            string
	RepoName              string
	RepoOwner             string
	IsTracked             bool
	IsLocal               bool
	NumFiles              uint32
	// TransformSeed is nil when absent. A non-nil zero is sent on the wire.
	TransformSeed           *float64
	PreferredEmbeddingModel uint32
	WorkspaceURI            string
	PreferredDBProvider     uint32
}

// SearchRepositoryRequest is the body of SearchRepositoryV2.
type SearchRepositoryRequest struct {
	Query      string
	Repository RepositoryInfo
	TopK       uint32
	Rerank     bool
	GlobFilter string
}

// SemSearchRequest wraps a SearchRepositoryRequest for the SemSearch method.
type SemSearchRequest struct {
	Request SearchRepositoryRequest
}

// EnsureIndexCreatedRequest asks the backend to build an index for a repository.
type EnsureIndexCreatedRequest struct {
	Repository RepositoryInfo
}

// SearchRepositoryResponse is the SearchRepositoryV2 answer.
type SearchRepositoryResponse struct {
	CodeResults []CodeResult
}

// SemSearchResponse is the SemSearch answer. Results can arrive in either field.
type SemSearchResponse struct {
	Response    SearchRepositoryResponse
	CodeResults []ClassifiedResult
}

// Results flattens both result lists, nested response first.
func (r SemSearchResponse) Results() []CodeResult {
	out := make([]CodeResult, 0, len(r.Response.CodeResults)+len(r.CodeResults))
	out = append(out, r.Response.CodeResults...)
	for _, c := range r.CodeResults {
		out = append(out, c.Result)
	}
	return out
}

// Top-level field numbers shared by the response shapes. Field 1 holds either
// a CodeResult or a nested response; field 3 holds classification wrappers.
const (
	ResultsField    = fieldResponseCodeResults
	ClassifiedField = fieldSemCodeResults
)
