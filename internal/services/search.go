package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"farmfund/grant-matcher/internal/models"
	"farmfund/grant-matcher/internal/repositories"
)

// SearchService is the free-text grant discovery path: grant summaries are
// embedded and indexed in Qdrant, queries are embedded and matched by
// cosine similarity. It is entirely separate from deterministic matching.
type SearchService interface {
	InitCollection() error
	IndexGrant(ctx context.Context, grant *models.Grant) error
	Search(ctx context.Context, query string, limit int) ([]models.GrantSearchResult, error)
}

type searchService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	geminiService  GeminiService
	grantRepo      repositories.GrantRepository
	logger         *zap.Logger
}

func NewSearchService(
	urlStr, apiKey, collectionName string,
	geminiService GeminiService,
	grantRepo repositories.GrantRepository,
	logger *zap.Logger,
) (SearchService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port; the REST port in QDRANT_URL is only used for host/TLS.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &searchService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
		geminiService:  geminiService,
		grantRepo:      grantRepo,
		logger:         logger,
	}, nil
}

// InitCollection implements SearchService.
func (s *searchService) InitCollection() error {
	ctx := context.Background()

	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	s.logger.Info("qdrant collection created", zap.String("collection", s.collectionName))
	return nil
}

// IndexGrant embeds the grant's title and summary and upserts it keyed by
// grant id, so re-indexing replaces rather than duplicates.
func (s *searchService) IndexGrant(ctx context.Context, grant *models.Grant) error {
	embedding, err := s.geminiService.GenerateEmbedding(ctx, grant.Title+"\n"+grant.Summary)
	if err != nil {
		return fmt.Errorf("failed to embed grant: %w", err)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(grant.ID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"grant_id": grant.ID.String(),
			"title":    grant.Title,
			"agency":   grant.Agency,
		}),
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Search implements SearchService. Results are hydrated from Postgres so
// callers always see the current grant record, not the indexed copy.
func (s *searchService) Search(ctx context.Context, query string, limit int) ([]models.GrantSearchResult, error) {
	embedding, err := s.geminiService.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(points))
	scores := make(map[uuid.UUID]float32, len(points))
	for _, point := range points {
		raw, ok := point.Payload["grant_id"]
		if !ok {
			continue
		}
		val, ok := raw.GetKind().(*qdrant.Value_StringValue)
		if !ok {
			continue
		}
		id, err := uuid.Parse(val.StringValue)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		scores[id] = point.Score
	}

	if len(ids) == 0 {
		return nil, nil
	}

	grants, err := s.grantRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate search results: %w", err)
	}

	byID := make(map[uuid.UUID]models.Grant, len(grants))
	for _, g := range grants {
		byID[g.ID] = g
	}

	// Preserve Qdrant's relevance order.
	results := make([]models.GrantSearchResult, 0, len(ids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			results = append(results, models.GrantSearchResult{
				Grant: g,
				Score: scores[id],
			})
		}
	}
	return results, nil
}
