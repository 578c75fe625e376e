package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"blockchainspace/internal/chains"
	"blockchainspace/internal/models"
	"blockchainspace/internal/repository"
)

const DefaultDocumentType = "blockchain-data"

var (
	ErrStoreNotConfigured = errors.New("database connection is not configured")
	ErrInvalidPayload     = errors.New("request body must be a JSON array of chain objects")
)

type SaveResult struct {
	Success  bool `json:"success"`
	Upserted bool `json:"upserted"`
	Modified bool `json:"modified"`
}

// ChainStore keeps the aggregate as one document replaced wholesale.
type ChainStore struct {
	Repo         repository.ChainSnapshotRepository
	DocumentType string
	Now          func() time.Time
}

func (s *ChainStore) configured() bool {
	return s != nil && s.Repo != nil
}

func (s *ChainStore) docType() string {
	if t := strings.TrimSpace(s.DocumentType); t != "" {
		return t
	}
	return DefaultDocumentType
}

func (s *ChainStore) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Save validates raw as an array of objects and replaces the stored document.
func (s *ChainStore) Save(ctx context.Context, raw []byte) (SaveResult, error) {
	if !s.configured() {
		return SaveResult{}, ErrStoreNotConfigured
	}
	doc, err := normalizeChainArray(raw)
	if err != nil {
		return SaveResult{}, err
	}
	now := s.now()
	res, err := s.Repo.ReplaceChainSnapshot(ctx, &models.ChainSnapshot{
		Type:      s.docType(),
		Chains:    datatypes.JSON(doc),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return SaveResult{}, fmt.Errorf("replace chain document: %w", err)
	}
	return SaveResult{Success: true, Upserted: res.Upserted, Modified: res.Modified}, nil
}

// Load returns the stored array as saved, or [] when nothing is stored.
func (s *ChainStore) Load(ctx context.Context) (json.RawMessage, error) {
	if !s.configured() {
		return nil, ErrStoreNotConfigured
	}
	item, err := s.Repo.GetChainSnapshot(ctx, s.docType())
	if err != nil {
		return nil, fmt.Errorf("load chain document: %w", err)
	}
	if item == nil || len(bytes.TrimSpace(item.Chains)) == 0 {
		return json.RawMessage("[]"), nil
	}
	return json.RawMessage(item.Chains), nil
}

func (s *ChainStore) SaveChains(ctx context.Context, items []chains.Chain) (SaveResult, error) {
	if items == nil {
		items = []chains.Chain{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return SaveResult{}, fmt.Errorf("encode chains: %w", err)
	}
	return s.Save(ctx, raw)
}

func (s *ChainStore) LoadChains(ctx context.Context) ([]chains.Chain, error) {
	raw, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []chains.Chain
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode stored chains: %w", err)
	}
	return out, nil
}

func normalizeChainArray(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrInvalidPayload
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, ErrInvalidPayload
	}
	for _, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, ErrInvalidPayload
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, ErrInvalidPayload
	}
	return buf.Bytes(), nil
}
