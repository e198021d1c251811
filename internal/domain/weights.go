package domain

// Category agrupa contenido y acciones por area de vida.
type Category string

const (
	CategoryFinancial    Category = "financial"
	CategoryWellness     Category = "wellness"
	CategoryRelationship Category = "relationship"
	CategoryCareer       Category = "career"
)

// Categories fija el orden canonico usado para desempates.
var Categories = []Category{
	CategoryFinancial,
	CategoryWellness,
	CategoryRelationship,
	CategoryCareer,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFinancial, CategoryWellness, CategoryRelationship, CategoryCareer:
		return true
	default:
		return false
	}
}

// DynamicWeights son pesos no negativos que suman 1.0.
type DynamicWeights struct {
	Financial    float64 `json:"financial"`
	Wellness     float64 `json:"wellness"`
	Relationship float64 `json:"relationship"`
	Career       float64 `json:"career"`
}

func (w DynamicWeights) Get(c Category) float64 {
	switch c {
	case CategoryFinancial:
		return w.Financial
	case CategoryWellness:
		return w.Wellness
	case CategoryRelationship:
		return w.Relationship
	case CategoryCareer:
		return w.Career
	default:
		return 0
	}
}

// With devuelve una copia con el peso de c reemplazado.
func (w DynamicWeights) With(c Category, v float64) DynamicWeights {
	switch c {
	case CategoryFinancial:
		w.Financial = v
	case CategoryWellness:
		w.Wellness = v
	case CategoryRelationship:
		w.Relationship = v
	case CategoryCareer:
		w.Career = v
	}
	return w
}

func (w DynamicWeights) Sum() float64 {
	return w.Financial + w.Wellness + w.Relationship + w.Career
}
