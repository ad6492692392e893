package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"lifeflow-backend/internal/core/cache"
	"lifeflow-backend/internal/domain"
)

const (
	regionTTL          = 6 * time.Hour
	keyDistricts       = "regions:districts"
	keyUpazilasPrefix  = "regions:upazilas:"
	keyUpazilasAllTail = "*"
)

// RegionFile is the seed document loaded by the admin CLI.
type RegionFile struct {
	Districts []domain.District `yaml:"districts"`
	Upazilas  []domain.Upazila  `yaml:"upazilas"`
}

type RegionService struct {
	regions domain.RegionRepository
	cache   *cache.Cache
	log     *zap.Logger
}

func NewRegionService(regions domain.RegionRepository, c *cache.Cache, l *zap.Logger) *RegionService {
	return &RegionService{regions: regions, cache: c, log: l}
}

func (s *RegionService) Districts(ctx context.Context) ([]domain.District, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, keyDistricts, regionTTL, s.regions.Districts)
}

// Upazilas lists the upazilas of the named district. An empty or unknown
// name lists every upazila.
func (s *RegionService) Upazilas(ctx context.Context, district string) ([]domain.Upazila, error) {
	districtID := ""
	if district != "" {
		d, err := s.regions.DistrictByName(ctx, district)
		switch {
		case err == nil:
			districtID = d.ID
		case !domain.IsNotFound(err):
			return nil, err
		}
	}
	key := keyUpazilasPrefix + keyUpazilasAllTail
	if districtID != "" {
		key = keyUpazilasPrefix + districtID
	}
	return cache.GetOrLoadJSON(s.cache, ctx, key, regionTTL, func(ctx context.Context) ([]domain.Upazila, error) {
		return s.regions.Upazilas(ctx, districtID)
	})
}

// Seed loads a YAML region file, upserts it, and drops cached lists.
func (s *RegionService) Seed(ctx context.Context, r io.Reader) (int, int, error) {
	var f RegionFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return 0, 0, domain.InvalidInput("decode region file: " + err.Error())
	}
	known := make(map[string]bool, len(f.Districts))
	for _, d := range f.Districts {
		if d.ID == "" || d.Name == "" {
			return 0, 0, domain.InvalidInput("district needs id and name")
		}
		known[d.ID] = true
	}
	for _, u := range f.Upazilas {
		if u.ID == "" || u.Name == "" {
			return 0, 0, domain.InvalidInput("upazila needs id and name")
		}
		if !known[u.DistrictID] {
			return 0, 0, domain.InvalidInput(fmt.Sprintf("upazila %q references unknown district %q", u.Name, u.DistrictID))
		}
	}
	if err := s.regions.Save(ctx, f.Districts, f.Upazilas); err != nil {
		return 0, 0, err
	}
	keys := []string{keyDistricts, keyUpazilasPrefix + keyUpazilasAllTail}
	for id := range known {
		keys = append(keys, keyUpazilasPrefix+id)
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("region cache invalidation failed", zap.Error(err))
	}
	return len(f.Districts), len(f.Upazilas), nil
}
