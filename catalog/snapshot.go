package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/apecloud/mycatalog/types"
)

// Snapshot is a self-contained capture of a catalog: the record tree
// plus the descriptor sets its structural types refer to, in pool-index
// order. Snapshots encode to JSON (descriptor sets as base64 proto wire)
// and can be restored in another process with no shared state.
type Snapshot struct {
	ID                 string         `json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	Catalog            *CatalogRecord `json:"catalog"`
	FileDescriptorSets [][]byte       `json:"file_descriptor_sets,omitempty"`
}

// NewSnapshot serializes c with opts and packs the accumulated file
// descriptors alongside the record.
func NewSnapshot(c *Catalog, opts SerializeOptions) (*Snapshot, error) {
	fdsets := types.NewFileDescriptorSetMap()
	rec, err := c.Serialize(fdsets, opts)
	if err != nil {
		return nil, err
	}
	sets := fdsets.FileDescriptorSets()
	blobs := make([][]byte, len(sets))
	for i, set := range sets {
		b, err := proto.Marshal(set)
		if err != nil {
			return nil, err
		}
		blobs[i] = b
	}
	return &Snapshot{
		ID:                 uuid.NewString(),
		CreatedAt:          time.Now().UTC(),
		Catalog:            rec,
		FileDescriptorSets: blobs,
	}, nil
}

// Encode renders the snapshot as JSON.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses JSON produced by Encode.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, ErrInvalidRecord.New(err.Error())
	}
	if s.Catalog == nil {
		return nil, ErrInvalidRecord.New("snapshot has no catalog")
	}
	return &s, nil
}

// Pools rehydrates one descriptor pool per embedded descriptor set,
// preserving the order type records index into.
func (s *Snapshot) Pools() ([]*types.DescriptorPool, error) {
	pools := make([]*types.DescriptorPool, len(s.FileDescriptorSets))
	for i, blob := range s.FileDescriptorSets {
		var set descriptorpb.FileDescriptorSet
		if err := proto.Unmarshal(blob, &set); err != nil {
			return nil, ErrInvalidRecord.New(err.Error())
		}
		pool, err := types.NewPoolFromFileDescriptorSet(&set)
		if err != nil {
			return nil, err
		}
		pools[i] = pool
	}
	return pools, nil
}

// Restore rebuilds the captured catalog.
func (s *Snapshot) Restore() (*Catalog, error) {
	pools, err := s.Pools()
	if err != nil {
		return nil, err
	}
	return Deserialize(s.Catalog, pools)
}

// RestoreWithBuiltins is Restore plus builtin re-loading from the
// recorded options.
func (s *Snapshot) RestoreWithBuiltins(provider BuiltinProvider) (*Catalog, error) {
	pools, err := s.Pools()
	if err != nil {
		return nil, err
	}
	return DeserializeWithBuiltins(s.Catalog, pools, provider)
}
