package service

import (
	"sort"
	"strings"

	"tiffinbox/internal/domain"
)

// CatalogService is the read side of the storefront: active vendors and
// their menus. Search, filter and sort are recomputed per request; nothing
// is cached.
type CatalogService struct {
	repo VendorRepository
}

func NewCatalogService(repo VendorRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListVendors(query, sortBy string, minRating float64) ([]domain.Vendor, error) {
	vendors, err := s.repo.ListActiveVendors()
	if err != nil {
		return nil, err
	}
	return FilterAndSortVendors(vendors, query, sortBy, minRating), nil
}

func (s *CatalogService) GetVendor(id string) (*domain.Vendor, error) {
	return s.repo.GetActiveVendor(id)
}

// Menu returns the vendor's items ordered by category then name, plus the
// distinct categories in encounter order.
func (s *CatalogService) Menu(vendorID string) ([]domain.MenuItem, []string, error) {
	items, err := s.repo.ListMenuItems(vendorID)
	if err != nil {
		return nil, nil, err
	}

	seen := map[string]bool{}
	var categories []string
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return items, categories, nil
}

func (s *CatalogService) GetMenuItem(vendorID, itemID string) (*domain.MenuItem, error) {
	return s.repo.GetMenuItem(vendorID, itemID)
}

// FilterAndSortVendors narrows vendors to those matching the search query
// (name, address or description substring) and the minimum rating, then
// sorts by the requested key: rating, orders, name or newest.
func FilterAndSortVendors(vendors []domain.Vendor, query, sortBy string, minRating float64) []domain.Vendor {
	query = strings.ToLower(query)

	filtered := make([]domain.Vendor, 0, len(vendors))
	for _, v := range vendors {
		if query != "" &&
			!strings.Contains(strings.ToLower(v.BusinessName), query) &&
			!strings.Contains(strings.ToLower(v.Address), query) &&
			!strings.Contains(strings.ToLower(v.Description), query) {
			continue
		}
		if v.Rating < minRating {
			continue
		}
		filtered = append(filtered, v)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch sortBy {
		case "orders":
			return a.TotalOrders > b.TotalOrders
		case "name":
			return a.BusinessName < b.BusinessName
		case "newest":
			return a.CreatedAt.After(b.CreatedAt)
		default: // rating
			return a.Rating > b.Rating
		}
	})

	return filtered
}

var _ CatalogServiceInterface = (*CatalogService)(nil)
