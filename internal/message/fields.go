package message

import "github.com/dshills/cursor-search-mcp/internal/wire"

// Field numbers for Position
const (
	fieldPositionLine   wire.Number = 1 // uint32
	fieldPositionColumn wire.Number = 2 // uint32
)

// Field numbers for Range
const (
	fieldRangeStart wire.Number = 1 // Position
	fieldRangeEnd   wire.Number = 2 // Position
)

// Field numbers for CodeBlock
const (
	fieldBlockPath             wire.Number = 1 // string
	fieldBlockFileContents     wire.Number = 2 // bytes
	fieldBlockRange            wire.Number = 3 // Range
	fieldBlockContents         wire.Number = 4 // bytes
	fieldBlockOverrideContents wire.Number = 6 // bytes
	fieldBlockOriginalContents wire.Number = 7 // bytes
)

// Field numbers for CodeResult and its classification wrapper
const (
	fieldResultCodeBlock wire.Number = 1 // CodeBlock
	fieldResultScore     wire.Number = 2 // double (fixed64) or float (fixed32)

	fieldClassifiedResult wire.Number = 1 // CodeResult
)

// Field numbers for RepositoryInfo
const (
	fieldRepoRelativePath      wire.Number = 1  // string
	fieldRepoRemoteURL         wire.Number = 2  // string
	fieldRepoRemoteName        wire.Number = 3  // string
	fieldRepoName              wire.Number = 4  // string
	fieldRepoOwner             wire.Number = 5  // string
	fieldRepoIsTracked         wire.Number = 6  // bool
	fieldRepoIsLocal           wire.Number = 7  // bool
	fieldRepoNumFiles          wire.Number = 8  // uint32
	fieldRepoTransformSeed     wire.Number = 9  // optional double
	fieldRepoEmbeddingModel    wire.Number = 10 // uint32 enum
	fieldRepoWorkspaceURI      wire.Number = 11 // string
	fieldRepoPreferredProvider wire.Number = 12 // uint32 enum
)

// Field numbers for the request messages
const (
	fieldSearchQuery      wire.Number = 1 // string
	fieldSearchRepository wire.Number = 2 // RepositoryInfo
	fieldSearchTopK       wire.Number = 3 // uint32
	fieldSearchRerank     wire.Number = 5 // bool
	fieldSearchGlobFilter wire.Number = 7 // string

	fieldSemSearchRequest wire.Number = 1 // SearchRepositoryRequest

	fieldEnsureIndexRepository wire.Number = 1 // RepositoryInfo
)

// Field numbers for the response messages
const (
	fieldResponseCodeResults wire.Number = 1 // repeated CodeResult

	fieldSemResponse    wire.Number = 1 // SearchRepositoryResponse
	fieldSemCodeResults wire.Number = 3 // repeated ClassifiedResult
)
