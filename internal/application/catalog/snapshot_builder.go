package catalog

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// SnapshotBuilder arma la vista denormalizada producto+inventario con un
// número CONSTANTE de consultas por lote (independiente del tamaño del
// catálogo): productos+categoría, ubicaciones, filas de inventario, definiciones
// de variante, cantidades de variante e imágenes. Los cruces se hacen en
// memoria con índices map[productID] construidos en una pasada lineal cada uno.
type SnapshotBuilder struct {
	products  repository.ProductRepository
	locations repository.LocationRepository
	inventory repository.InventoryRepository
	variants  repository.VariantRepository
	media     repository.MediaRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewSnapshotBuilder construye el builder.
func NewSnapshotBuilder(
	products repository.ProductRepository,
	locations repository.LocationRepository,
	inventory repository.InventoryRepository,
	variants repository.VariantRepository,
	media repository.MediaRepository,
	log *logger.Logger,
) *SnapshotBuilder {
	return &SnapshotBuilder{
		products:  products,
		locations: locations,
		inventory: inventory,
		variants:  variants,
		media:     media,
		log:       log,
		now:       time.Now,
	}
}

// Build devuelve el catálogo completo enriquecido. filter limita las
// ubicaciones consideradas para el total y el desglose; vacío = todas.
// Las sub-consultas de inventario/variantes/imágenes que fallen se registran
// y se tratan como "característica ausente": el snapshot sale igual con los
// campos no afectados.
func (b *SnapshotBuilder) Build(ctx context.Context, filter []entity.LocationRef) ([]dto.ProductSnapshot, error) {
	products, err := b.products.ListAll()
	if err != nil {
		return nil, err
	}

	locations, err := b.locations.ListActive()
	if err != nil {
		b.log.Warn().Err(err).Msg("snapshot: ubicaciones no disponibles")
		locations = nil
	}
	locNames := make(map[string]string, len(locations))
	for _, l := range locations {
		locNames[entity.LocationRef{Kind: l.Kind, ID: l.ID}.Key()] = l.Name
	}

	selected := make(map[string]bool, len(filter))
	for _, ref := range filter {
		selected[ref.Key()] = true
	}
	inFilter := func(ref entity.LocationRef) bool {
		return len(selected) == 0 || selected[ref.Key()]
	}

	productIDs := make([]string, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	// Índice inventario: productID -> filas
	invIndex := make(map[string][]*entity.InventoryRecord)
	if records, err := b.inventory.ListByProducts(productIDs); err != nil {
		b.log.Warn().Err(err).Msg("snapshot: inventario no disponible")
	} else {
		for _, rec := range records {
			invIndex[rec.ProductID] = append(invIndex[rec.ProductID], rec)
		}
	}

	// Índice definiciones de variante: productID -> defs (y defID -> def)
	defIndex := make(map[string][]*entity.VariantDefinition)
	defByID := make(map[string]*entity.VariantDefinition)
	defs, err := b.variants.ListDefinitionsByProducts(productIDs)
	if err != nil {
		b.log.Warn().Err(err).Msg("snapshot: definiciones de variante no disponibles")
		defs = nil
	}
	defIDs := make([]string, 0, len(defs))
	for _, d := range defs {
		defIndex[d.ProductID] = append(defIndex[d.ProductID], d)
		defByID[d.ID] = d
		defIDs = append(defIDs, d.ID)
	}

	// Índice cantidades de variante: defID+branch -> cantidad
	qtyIndex := make(map[string]map[string]decimal.Decimal) // defID -> branchID -> qty
	if len(defIDs) > 0 {
		if qtys, err := b.variants.ListQuantitiesByDefinitions(defIDs); err != nil {
			b.log.Warn().Err(err).Msg("snapshot: cantidades de variante no disponibles")
		} else {
			for _, q := range qtys {
				byBranch := qtyIndex[q.DefinitionID]
				if byBranch == nil {
					byBranch = make(map[string]decimal.Decimal)
					qtyIndex[q.DefinitionID] = byBranch
				}
				byBranch[q.BranchID] = byBranch[q.BranchID].Add(q.Quantity)
			}
		}
	}

	// Índice imágenes: productID -> urls
	imgIndex := make(map[string][]string)
	if imgs, err := b.media.ListByProducts(productIDs); err != nil {
		b.log.Warn().Err(err).Msg("snapshot: imágenes no disponibles")
	} else {
		for _, img := range imgs {
			imgIndex[img.ProductID] = append(imgIndex[img.ProductID], img.URL)
		}
	}

	now := b.now()
	out := make([]dto.ProductSnapshot, 0, len(products))
	for _, p := range products {
		snap := dto.ProductSnapshot{
			ID:            p.ID,
			Name:          p.Name,
			Barcode:       p.Barcode,
			CategoryID:    p.CategoryID,
			CategoryName:  p.CategoryName,
			Price:         p.Price,
			FinalPrice:    p.FinalPrice(now),
			Cost:          p.Cost,
			Active:        p.Active,
			TotalQuantity: decimal.Zero,
			Locations:     make(map[string]dto.LocationStockDTO),
			Images:        dedupe(imgIndex[p.ID]),
		}

		for _, rec := range invIndex[p.ID] {
			if !inFilter(rec.Location) {
				continue
			}
			entry := dto.LocationStockDTO{
				Location:     rec.Location,
				LocationName: locNames[rec.Location.Key()],
				Quantity:     rec.Quantity,
				MinStock:     rec.MinStock,
				AuditStatus:  rec.AuditStatus,
			}
			if rec.Location.IsBranch() {
				entry.Variants = b.variantBreakdown(p.ID, rec.Location.ID, rec.Quantity, defIndex, qtyIndex)
			}
			snap.Locations[rec.Location.Key()] = entry
			snap.TotalQuantity = snap.TotalQuantity.Add(rec.Quantity)
		}

		out = append(out, snap)
	}
	return out, nil
}

// variantBreakdown arma las variantes con nombre de una sucursal más el
// remanente "sin asignar", que SIEMPRE se deriva (branchQty − Σ variantes con
// nombre); la fila almacenada del bucket sin especificar se ignora a propósito.
func (b *SnapshotBuilder) variantBreakdown(
	productID, branchID string,
	branchQty decimal.Decimal,
	defIndex map[string][]*entity.VariantDefinition,
	qtyIndex map[string]map[string]decimal.Decimal,
) []dto.VariantStockDTO {
	defs := defIndex[productID]
	if len(defs) == 0 {
		return nil
	}

	specified := make([]*entity.VariantDefinition, 0, len(defs))
	for _, d := range defs {
		if !d.IsUnspecified() {
			specified = append(specified, d)
		}
	}
	// El orden del catálogo manda; el nombre solo desempata.
	sort.SliceStable(specified, func(i, j int) bool {
		if specified[i].SortOrder != specified[j].SortOrder {
			return specified[i].SortOrder < specified[j].SortOrder
		}
		return specified[i].Name < specified[j].Name
	})

	named := make([]dto.VariantStockDTO, 0, len(specified))
	assigned := decimal.Zero
	for _, d := range specified {
		qty := decimal.Zero
		if byBranch := qtyIndex[d.ID]; byBranch != nil {
			qty = byBranch[branchID]
		}
		named = append(named, dto.VariantStockDTO{
			DefinitionID: d.ID,
			Kind:         d.Kind,
			Name:         d.Name,
			ColorCode:    d.ColorCode,
			Quantity:     qty,
		})
		assigned = assigned.Add(qty)
	}

	if len(named) == 0 {
		return nil
	}

	unassigned := branchQty.Sub(assigned)
	if unassigned.IsNegative() {
		unassigned = decimal.Zero
	}
	return append(named, dto.VariantStockDTO{
		Name:       "unassigned",
		Quantity:   unassigned,
		Unassigned: true,
	})
}

func dedupe(urls []string) []string {
	if len(urls) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
