package domain

var defaultProducts = []Product{
	{ID: "1", Name: "Café Gourmet 500g", Category: "Alimentos", Cost: 15, CurrentPrice: 35, MonthlySales: 120, Description: "Grãos selecionados com torra média e notas achocolatadas."},
	{ID: "2", Name: "Caneca Cerâmica Artística", Category: "Utensílios", Cost: 8, CurrentPrice: 28, MonthlySales: 45, Description: "Caneca feita à mão com design exclusivo minimalista."},
	{ID: "3", Name: "Smartphone Pro Max 128GB", Category: "Eletrônicos", Cost: 3200, CurrentPrice: 4500, MonthlySales: 15, Description: "Último modelo com câmera tripla e processador de alta performance."},
	{ID: "4", Name: "Camiseta Algodão Pima", Category: "Vestuário", Cost: 35, CurrentPrice: 89, MonthlySales: 210, Description: "Camiseta básica de alta durabilidade e toque extra macio."},
	{ID: "5", Name: "Vinho Tinto Malbec Reserva", Category: "Bebidas", Cost: 45, CurrentPrice: 110, MonthlySales: 60, Description: "Vinho encorpado com 12 meses de maturação em barril de carvalho."},
	{ID: "6", Name: "Fone Bluetooth Noise Cancelling", Category: "Eletrônicos", Cost: 180, CurrentPrice: 399, MonthlySales: 85, Description: "Cancelamento ativo de ruído e bateria de longa duração."},
	{ID: "7", Name: "Kit Home Office Ergonômico", Category: "Escritório", Cost: 120, CurrentPrice: 250, MonthlySales: 30, Description: "Suporte para notebook e mousepad ergonômico de alta densidade."},
}

// DefaultProducts returns a fresh copy of the seed catalog used on first run.
func DefaultProducts() []Product {
	out := make([]Product, len(defaultProducts))
	copy(out, defaultProducts)
	return out
}
