package fallback

import "github.com/jcmexdev/osouk/internal/core/domain/entity"

// SeedCatalog returns the six built-in products used to populate an empty
// store at first boot and to pre-fill the mirror. Prices are in dirhams.
// The ids match what SQLite/MySQL assign on a fresh seed, so the mirror and
// the store agree before the first sync.
func SeedCatalog() []entity.Product {
	return []entity.Product{
		{ID: 1, Name: "Attiéké Frais", Description: "Semoule de manioc fermentée, spécialité ivoirienne.", Price: 25, Category: "Féculents", Image: "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=500&q=80", InStock: true},
		{ID: 2, Name: "Igname", Description: "Igname de qualité supérieure, idéal pour vos plats.", Price: 35, Category: "Légumes", Image: "https://images.unsplash.com/photo-1595856461939-2fe8b6951214?w=500&q=80", InStock: true},
		{ID: 3, Name: "Banane Plantain", Description: "Bananes plantains mûres ou vertes selon arrivage.", Price: 20, Category: "Légumes", Image: "https://images.unsplash.com/photo-1528825871115-3581a5387919?w=500&q=80", InStock: true},
		{ID: 4, Name: "Piment Rouge", Description: "Piments forts pour relever vos sauces.", Price: 15, Category: "Condiments", Image: "https://images.unsplash.com/photo-1596662951482-0c4ba74a6df6?w=500&q=80", InStock: true},
		{ID: 5, Name: "Huile de Palme", Description: "Huile de palme rouge naturelle.", Price: 45, Category: "Huilerie", Image: "https://images.unsplash.com/photo-1620706857370-e1b9770e8bb1?w=500&q=80", InStock: true},
		{ID: 6, Name: "Poisson Salé", Description: "Poisson séché et salé pour vos bouillons.", Price: 60, Category: "Protéines", Image: "https://images.unsplash.com/photo-1498654200943-1088dd4438ae?w=500&q=80", InStock: true},
	}
}
