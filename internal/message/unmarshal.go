package message

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dshills/cursor-search-mcp/internal/wire"
)

// ErrInvalidUTF8 is returned when a string field does not hold valid UTF-8.
var ErrInvalidUTF8 = errors.New("message: string field is not valid UTF-8")

// walk calls fn for every top-level field in buf, stopping at the first error.
func walk(buf []byte, fn func(f wire.Field) error) error {
	r := wire.NewReader(buf)
	for !r.Done() {
		f, err := r.Next()
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func text(f wire.Field) (string, error) {
	s, ok := f.Text()
	if !ok {
		return "", fmt.Errorf("field %d: %w", f.Number, ErrInvalidUTF8)
	}
	return s, nil
}

func nested(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// Unmarshal decodes buf into p.
func (p *Position) Unmarshal(buf []byte) error {
	*p = Position{}
	return walk(buf, func(f wire.Field) error {
		if f.Type != wire.VarintType {
			return nil
		}
		switch f.Number {
		case fieldPositionLine:
			p.Line = uint32(f.Varint)
		case fieldPositionColumn:
			p.Column = uint32(f.Varint)
		}
		return nil
	})
}

// Unmarshal decodes buf into r.
func (r *Range) Unmarshal(buf []byte) error {
	*r = Range{}
	return walk(buf, func(f wire.Field) error {
		if f.Type != wire.BytesType {
			return nil
		}
		switch f.Number {
		case fieldRangeStart:
			return nested("range start", r.Start.Unmarshal(f.Bytes))
		case fieldRangeEnd:
			return nested("range end", r.End.Unmarshal(f.Bytes))
		}
		return nil
	})
}

// Unmarshal decodes buf into b. Content fields are copied out of buf.
func (b *CodeBlock) Unmarshal(buf []byte) error {
	*b = CodeBlock{}
	return walk(buf, func(f wire.Field) error {
		if f.Type != wire.BytesType {
			return nil
		}
		var err error
		switch f.Number {
		case fieldBlockPath:
			b.Path, err = text(f)
		case fieldBlockFileContents:
			b.FileContents = bytes.Clone(f.Bytes)
		case fieldBlockRange:
			err = nested("code block range", b.Range.Unmarshal(f.Bytes))
		case fieldBlockContents:
			b.Contents = bytes.Clone(f.Bytes)
		case fieldBlockOverrideContents:
			b.OverrideContents = bytes.Clone(f.Bytes)
		case fieldBlockOriginalContents:
			b.OriginalContents = bytes.Clone(f.Bytes)
		}
		return err
	})
}

// Unmarshal decodes buf into r, accepting the score as a double or a float.
func (r *CodeResult) Unmarshal(buf []byte) error {
	*r = CodeResult{}
	return walk(buf, func(f wire.Field) error {
		switch f.Number {
		case fieldResultCodeBlock:
			if f.Type == wire.BytesType {
				return nested("code block", r.CodeBlock.Unmarshal(f.Bytes))
			}
		case fieldResultScore:
			if v, ok := f.Float64(); ok {
				r.Score = v
			}
		}
		return nil
	})
}

// Unmarshal decodes buf into c.
func (c *ClassifiedResult) Unmarshal(buf []byte) error {
	*c = ClassifiedResult{}
	return walk(buf, func(f wire.Field) error {
		if f.Number == fieldClassifiedResult && f.Type == wire.BytesType {
			return nested("code result", c.Result.Unmarshal(f.Bytes))
		}
		return nil
	})
}

// Unmarshal decodes buf into r.
func (r *RepositoryInfo) Unmarshal(buf []byte) error {
	*r = RepositoryInfo{}
	return walk(buf, func(f wire.Field) error {
		switch f.Type {
		case wire.BytesType:
			var dst *string
			switch f.Number {
			case fieldRepoRelativePath:
				dst = &r.RelativeWorkspacePath
			case fieldRepoRemoteURL:
				dst = &r.RemoteURL
			case fieldRepoRemoteName:
				dst = &r.RemoteName
			case fieldRepoName:
				dst = &r.RepoName
			case fieldRepoOwner:
				dst = &r.RepoOwner
			case fieldRepoWorkspaceURI:
				dst = &r.WorkspaceURI
			default:
				return nil
			}
			s, err := text(f)
			*dst = s
			return err
		case wire.VarintType:
			switch f.Number {
			case fieldRepoIsTracked:
				r.IsTracked = f.Varint != 0
			case fieldRepoIsLocal:
				r.IsLocal = f.Varint != 0
			case fieldRepoNumFiles:
				r.NumFiles = uint32(f.Varint)
			case fieldRepoEmbeddingModel:
				r.PreferredEmbeddingModel = uint32(f.Varint)
			case fieldRepoPreferredProvider:
				r.PreferredDBProvider = uint32(f.Varint)
			}
		case wire.Fixed64Type, wire.Fixed32Type:
			if f.Number == fieldRepoTransformSeed {
				v, _ := f.Float64()
				r.TransformSeed = &v
			}
		}
		return nil
	})
}

// Unmarshal decodes buf into r.
func (r *SearchRepositoryRequest) Unmarshal(buf []byte) error {
	*r = SearchRepositoryRequest{}
	return walk(buf, func(f wire.Field) error {
		var err error
		switch {
		case f.Number == fieldSearchQuery && f.Type == wire.BytesType:
			r.Query, err = text(f)
		case f.Number == fieldSearchRepository && f.Type == wire.BytesType:
			err = nested("repository", r.Repository.Unmarshal(f.Bytes))
		case f.Number == fieldSearchTopK && f.Type == wire.VarintType:
			r.TopK = uint32(f.Varint)
		case f.Number == fieldSearchRerank && f.Type == wire.VarintType:
			r.Rerank = f.Varint != 0
		case f.Number == fieldSearchGlobFilter && f.Type == wire.BytesType:
			r.GlobFilter, err = text(f)
		}
		return err
	})
}

// Unmarshal decodes buf into r.
func (r *SemSearchRequest) Unmarshal(buf []byte) error {
	*r = SemSearchRequest{}
	return walk(buf, func(f wire.Field) error {
		if f.Number == fieldSemSearchRequest && f.Type == wire.BytesType {
			return nested("request", r.Request.Unmarshal(f.Bytes))
		}
		return nil
	})
}

// Unmarshal decodes buf into r.
func (r *EnsureIndexCreatedRequest) Unmarshal(buf []byte) error {
	*r = EnsureIndexCreatedRequest{}
	return walk(buf, func(f wire.Field) error {
		if f.Number == fieldEnsureIndexRepository && f.Type == wire.BytesType {
			return nested("repository", r.Repository.Unmarshal(f.Bytes))
		}
		return nil
	})
}

// Unmarshal decodes buf into r. A list entry that fails part way is kept in
// its partial form before the error is returned.
func (r *SearchRepositoryResponse) Unmarshal(buf []byte) error {
	*r = SearchRepositoryResponse{}
	return walk(buf, func(f wire.Field) error {
		if f.Number != fieldResponseCodeResults || f.Type != wire.BytesType {
			return nil
		}
		var c CodeResult
		err := c.Unmarshal(f.Bytes)
		r.CodeResults = append(r.CodeResults, c)
		return nested(fmt.Sprintf("code result %d", len(r.CodeResults)-1), err)
	})
}

// Unmarshal decodes buf into r.
func (r *SemSearchResponse) Unmarshal(buf []byte) error {
	*r = SemSearchResponse{}
	return walk(buf, func(f wire.Field) error {
		if f.Type != wire.BytesType {
			return nil
		}
		switch f.Number {
		case fieldSemResponse:
			var inner SearchRepositoryResponse
			err := inner.Unmarshal(f.Bytes)
			r.Response.CodeResults = append(r.Response.CodeResults, inner.CodeResults...)
			return nested("response", err)
		case fieldSemCodeResults:
			var c ClassifiedResult
			err := c.Unmarshal(f.Bytes)
			r.CodeResults = append(r.CodeResults, c)
			return nested(fmt.Sprintf("classified result %d", len(r.CodeResults)-1), err)
		}
		return nil
	})
}
