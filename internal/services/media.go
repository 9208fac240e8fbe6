package services

import (
	"megano/internal/domain"
	"megano/internal/repos"
)

// attachMedia fills Images and Tags of the given products in place.
func attachMedia(prods *repos.ProductRepo, tags *repos.TagRepo, ps []domain.Product) error {
	if len(ps) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	imgs, err := prods.Images(ids)
	if err != nil {
		return err
	}
	tg, err := tags.ForProducts(ids)
	if err != nil {
		return err
	}
	for i := range ps {
		ps[i].Images = imgs[ps[i].ID]
		ps[i].Tags = tg[ps[i].ID]
		if ps[i].Images == nil {
			ps[i].Images = []domain.Image{}
		}
		if ps[i].Tags == nil {
			ps[i].Tags = []domain.Tag{}
		}
	}
	return nil
}
