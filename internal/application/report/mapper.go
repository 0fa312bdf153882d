package report

import (
	"github.com/mulphico/inventory-valuation/internal/application/dto"
	"github.com/mulphico/inventory-valuation/internal/domain/valuation"
)

func toResponse(rep *valuation.Report, policy valuation.AdjustmentPolicy, cached bool) *dto.InventoryValuationResponse {
	out := &dto.InventoryValuationResponse{
		DateFrom:         rep.DateFrom.Format(dto.DateLayout),
		DateTo:           rep.DateTo.Format(dto.DateLayout),
		WarehouseNames:   rep.WarehouseNames,
		AdjustmentPolicy: policy.String(),
		Lines:            make([]dto.ValuationLineResponse, 0, len(rep.Lines)),
		Totals: dto.ValuationTotalsResponse{
			Opening:      toBucket(rep.Totals.Opening),
			Receipt:      toBucket(rep.Totals.Receipt),
			Manufactured: toBucket(rep.Totals.Manufactured),
			Delivered:    toBucket(rep.Totals.Delivered),
			Adjustment:   toBucket(rep.Totals.Adjustment),
			Scrap:        toBucket(rep.Totals.Scrap),
			Closing:      toBucket(rep.Totals.Closing),
		},
		Cached: cached,
	}
	for _, l := range rep.Lines {
		if !l.Reconciles() {
			out.Discrepancies++
		}
		out.Lines = append(out.Lines, dto.ValuationLineResponse{
			ProductID:      l.ProductID,
			Principal:      l.Principal,
			Type:           l.DeviceType,
			Model:          l.Model,
			Barcode:        l.Barcode,
			ProductName:    l.ProductName,
			ProductModel:   l.ProductModel,
			Category:       l.Category,
			Rate:           l.StandardPrice,
			CostingMethod:  l.CostingMethod,
			Opening:        toBucket(l.Opening),
			Receipt:        toBucket(l.Receipt),
			Manufactured:   toBucket(l.Manufactured),
			Delivered:      toBucket(l.Delivered),
			Adjustment:     toBucket(l.Adjustment),
			Scrap:          toBucket(l.Scrap),
			Closing:        toBucket(l.Closing),
			DiscrepancyQty: l.DiscrepancyQty(),
		})
	}
	return out
}

func toBucket(b valuation.Bucket) dto.BucketResponse {
	return dto.BucketResponse{Qty: b.Quantity, Rate: b.Rate, Value: b.Value}
}
