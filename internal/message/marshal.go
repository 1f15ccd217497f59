package message

import "github.com/dshills/cursor-search-mcp/internal/wire"

// Marshal encodes p. A zero Position encodes to no bytes.
func (p Position) Marshal() []byte {
	e := wire.NewEncoder()
	e.Uint32(fieldPositionLine, p.Line)
	e.Uint32(fieldPositionColumn, p.Column)
	return e.Bytes()
}

// Marshal encodes r.
func (r Range) Marshal() []byte {
	e := wire.NewEncoder()
	e.Message(fieldRangeStart, r.Start.Marshal())
	e.Message(fieldRangeEnd, r.End.Marshal())
	return e.Bytes()
}

// Marshal encodes b.
func (b CodeBlock) Marshal() []byte {
	e := wire.NewEncoder()
	e.Str(fieldBlockPath, b.Path)
	e.Blob(fieldBlockFileContents, b.FileContents)
	e.Message(fieldBlockRange, b.Range.Marshal())
	e.Blob(fieldBlockContents, b.Contents)
	e.Blob(fieldBlockOverrideContents, b.OverrideContents)
	e.Blob(fieldBlockOriginalContents, b.OriginalContents)
	return e.Bytes()
}

// Marshal encodes r. The score is always written as a double.
func (r CodeResult) Marshal() []byte {
	e := wire.NewEncoder()
	e.Message(fieldResultCodeBlock, r.CodeBlock.Marshal())
	e.Double(fieldResultScore, r.Score)
	return e.Bytes()
}

// Marshal encodes c.
func (c ClassifiedResult) Marshal() []byte {
	e := wire.NewEncoder()
	e.Message(fieldClassifiedResult, c.Result.Marshal())
	return e.Bytes()
}

// Marshal encodes r.
func (r RepositoryInfo) Marshal() []byte {
	e := wire.NewEncoder()
	e.Str(fieldRepoRelativePath, r.RelativeWorkspacePath)
	e.Str(fieldRepoRemoteURL, r.RemoteURL)
	e.Str(fieldRepoRemoteName, r.RemoteName)
	e.Str(fieldRepoName, r.RepoName)
	e.Str(fieldRepoOwner, r.RepoOwner)
	e.Bool(fieldRepoIsTracked, r.IsTracked)
	e.Bool(fieldRepoIsLocal, r.IsLocal)
	e.Uint32(fieldRepoNumFiles, r.NumFiles)
	e.OptionalDouble(fieldRepoTransformSeed, r.TransformSeed)
	e.Uint32(fieldRepoEmbeddingModel, r.PreferredEmbeddingModel)
	e.Str(fieldRepoWorkspaceURI, r.WorkspaceURI)
	e.Uint32(fieldRepoPreferredProvider, r.PreferredDBProvider)
	return e.Bytes()
}

// Marshal encodes r.
func (r SearchRepositoryRequest) Marshal() []byte {
	e := wire.NewEncoder()
	e.Str(fieldSearchQuery, r.Query)
	e.Message(fieldSearchRepository, r.Repository.Marshal())
	e.Uint32(fieldSearchTopK, r.TopK)
	e.Bool(fieldSearchRerank, r.Rerank)
	e.Str(fieldSearchGlobFilter, r.GlobFilter)
	return e.Bytes()
}

// Marshal encodes r.
func (r SemSearchRequest) Marshal() []byte {
	e := wire.NewEncoder()
	e.Message(fieldSemSearchRequest, r.Request.Marshal())
	return e.Bytes()
}

// Marshal encodes r.
func (r EnsureIndexCreatedRequest) Marshal() []byte {
	e := wire.NewEncoder()
	e.Message(fieldEnsureIndexRepository, r.Repository.Marshal())
	return e.Bytes()
}

// Marshal encodes r. Every list entry is written, empty ones included.
func (r SearchRepositoryResponse) Marshal() []byte {
	e := wire.NewEncoder()
	for _, c := range r.CodeResults {
		e.Element(fieldResponseCodeResults, c.Marshal())
	}
	return e.Bytes()
}

// Marshal encodes r.
func (r SemSearchResponse) Marshal() []byte {
	e := wire.NewEncoder()
	e.Message(fieldSemResponse, r.Response.Marshal())
	for _, c := range r.CodeResults {
		e.Element(fieldSemCodeResults, c.Marshal())
	}
	return e.Bytes()
}
