package blog

import "github.com/sunil-gumatimath/wave-length/internal/models"

// DefaultRelatedLimit is the number of related posts shown under a post.
const DefaultRelatedLimit = 3

// RelatedPosts picks up to limit posts from all that share a category with
// current, in input order, then tops up with any other posts in input order.
// current itself is never returned. A non-positive limit uses DefaultRelatedLimit.
func RelatedPosts(current models.PostWithRelations, all []models.PostWithRelations, limit int) []models.PostWithRelations {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	wanted := make(map[uint]struct{}, len(current.PostCategories))
	for _, id := range current.CategoryIDs() {
		wanted[id] = struct{}{}
	}

	result := make([]models.PostWithRelations, 0, limit)
	picked := make(map[uint]struct{}, limit)

	for _, p := range all {
		if len(result) == limit {
			break
		}
		if p.ID == current.ID || !sharesCategory(&p, wanted) {
			continue
		}
		result = append(result, p)
		picked[p.ID] = struct{}{}
	}

	for _, p := range all {
		if len(result) == limit {
			break
		}
		if p.ID == current.ID {
			continue
		}
		if _, ok := picked[p.ID]; ok {
			continue
		}
		result = append(result, p)
		picked[p.ID] = struct{}{}
	}

	return result
}

func sharesCategory(p *models.PostWithRelations, wanted map[uint]struct{}) bool {
	if len(wanted) == 0 {
		return false
	}
	for _, pc := range p.PostCategories {
		if _, ok := wanted[pc.Category.ID]; ok {
			return true
		}
	}
	return false
}
