package seed

import "github.com/fekuna/penstore/internal/model"

type imageData struct {
	URL string
	Alt string
}

type collectionData struct {
	Name        string
	Slug        string
	Description string
	Featured    bool
	ImageURL    string
}

type productData struct {
	Name             string
	Slug             string
	CollectionSlug   string
	Price            int64
	SKU              string
	ShortDescription string
	Stock            int
	Featured         bool
	Images           []imageData
	Specifications   model.Specifications
}

const unsplash = "https://images.unsplash.com/"

var collections = []collectionData{
	{
		Name:        "Meisterstück",
		Slug:        "meisterstuck",
		Description: "The iconic Meisterstück collection represents the pinnacle of Montblanc craftsmanship since 1924. These writing instruments embody timeless elegance and exceptional quality.",
		Featured:    true,
		ImageURL:    unsplash + "photo-1583485088034-697b5bc54ccd?q=80&w=1200",
	},
	{
		Name:        "StarWalker",
		Slug:        "starwalker",
		Description: "A modern interpretation of Montblanc heritage, designed for the contemporary leader. Bold aesthetics meet precision engineering.",
		Featured:    true,
		ImageURL:    unsplash + "photo-1560859251-d563a49c5e4a?q=80&w=1200",
	},
	{
		Name:        "Heritage",
		Slug:        "heritage",
		Description: "Drawing inspiration from Montblanc history, this collection pays homage to classic design with modern functionality.",
		Featured:    true,
		ImageURL:    unsplash + "photo-1473186578172-c141e6798cf4?q=80&w=1200",
	},
	{
		Name:        "Writers Edition",
		Slug:        "writers-edition",
		Description: "Limited edition writing instruments celebrating literary legends. Each pen is a tribute to the world's greatest authors.",
		Featured:    true,
		ImageURL:    unsplash + "photo-1493217465235-252dd9c0d632?q=80&w=1200",
	},
}

var products = []productData{
	{
		Name:             "Meisterstück 149 Platinum Fountain Pen",
		Slug:             "meisterstuck-149-platinum",
		CollectionSlug:   "meisterstuck",
		Price:            1110,
		SKU:              "MB-149-PT",
		ShortDescription: "The flagship Montblanc fountain pen with handcrafted 18K gold nib and platinum-coated details.",
		Stock:            5,
		Featured:         true,
		Images: []imageData{
			{unsplash + "photo-1583485088034-697b5bc54ccd?q=80&w=1000", "Meisterstück 149 Platinum Front View"},
			{unsplash + "photo-1455390582262-044cdead277a?q=80&w=1000", "Meisterstück 149 Platinum Detail"},
		},
		Specifications: model.Specifications{
			NibSize: model.NibMedium, NibMaterial: "18K Gold", Material: "Precious Resin",
			TrimColor: model.TrimPlatinum, Length: "147mm", Weight: "32g", FillingSystem: model.FillingPiston,
		},
	},
	{
		Name:             "Meisterstück 146 LeGrand Fountain Pen",
		Slug:             "meisterstuck-146-legrand",
		CollectionSlug:   "meisterstuck",
		Price:            935,
		SKU:              "MB-146-GD",
		ShortDescription: "A slightly more compact version of the iconic 149, perfect for everyday use with its refined gold trim.",
		Stock:            8,
		Featured:         true,
		Images: []imageData{
			{unsplash + "photo-1560859251-d563a49c5e4a?q=80&w=1000", "Meisterstück 146 LeGrand Front View"},
			{unsplash + "photo-1513364776144-60967b0f800f?q=80&w=1000", "Meisterstück 146 LeGrand Close Up"},
		},
		Specifications: model.Specifications{
			NibSize: model.NibFine, NibMaterial: "14K Gold", Material: "Precious Resin",
			TrimColor: model.TrimGold, Length: "140mm", Weight: "26g", FillingSystem: model.FillingPiston,
		},
	},
	{
		Name:             "Meisterstück Classique Fountain Pen",
		Slug:             "meisterstuck-classique",
		CollectionSlug:   "meisterstuck",
		Price:            615,
		SKU:              "MB-MC-CL",
		ShortDescription: "The compact Classique model, ideal for on-the-go writing with impeccable Montblanc style.",
		Stock:            12,
		Images: []imageData{
			{unsplash + "photo-1493217465235-252dd9c0d632?q=80&w=1000", "Meisterstück Classique Front View"},
			{unsplash + "photo-1517842264405-72bb906a1936?q=80&w=1000", "Meisterstück Classique On Desk"},
		},
		Specifications: model.Specifications{
			NibSize: model.NibFine, NibMaterial: "14K Gold", Material: "Precious Resin",
			TrimColor: model.TrimGold, Length: "145mm", Weight: "20g", FillingSystem: model.FillingCartridge,
		},
	},
	{
		Name:             "StarWalker Midnight Black Fountain Pen",
		Slug:             "starwalker-midnight-black",
		CollectionSlug:   "starwalker",
		Price:            790,
		SKU:              "MB-SW-MN",
		ShortDescription: "Contemporary design with floating Montblanc emblem in the transparent dome, finished in deep black.",
		Stock:            10,
		Featured:         true,
		Images: []imageData{
			{unsplash + "photo-1513364776144-60967b0f800f?q=80&w=1000", "StarWalker Midnight Black Front View"},
			{unsplash + "photo-1544816155-12df9643f363?q=80&w=1000", "StarWalker Midnight Black Side View"},
		},
		Specifications: model.Specifications{
			NibSize: model.NibMedium, NibMaterial: "14K Gold", Material: "Black Precious Resin",
			TrimColor: model.TrimPlatinum, Length: "141mm", Weight: "28g", FillingSystem: model.FillingCartridge,
		},
	},
	{
		Name:             "StarWalker SpaceBlue Fountain Pen",
		Slug:             "starwalker-spaceblue",
		CollectionSlug:   "starwalker",
		Price:            750,
		SKU:              "MB-SW-SB",
		ShortDescription: "Blue lacquer finish with ruthenium-coated fittings for a celestial aesthetic.",
		Stock:            6,
		Images: []imageData{
			{unsplash + "photo-1455390582262-044cdead277a?q=80&w=1000", "StarWalker SpaceBlue Front View"},
			{unsplash + "photo-1501618669935-18b6ecb13d6d?q=80&w=1000", "StarWalker SpaceBlue With Inkwell"},
		},
		Specifications: model.Specifications{
			NibSize: model.NibMedium, NibMaterial: "14K Gold", Material: "Blue Lacquer",
			TrimColor: model.TrimRuthenium, Length: "141mm", Weight: "28g", FillingSystem: model.FillingCartridge,
		},
	},
	{
		Name:             "Heritage Rouge et Noir Fountain Pen",
		Slug:             "heritage-rouge-noir",
		CollectionSlug:   "heritage",
		Price:            1020,
		SKU:              "MB-HR-RN",
		ShortDescription: "Inspired by the original 1906 design, featuring the iconic coral-colored snake clip.",
		Stock:            3,
		Featured:         true,
		Images: []imageData{
			{unsplash + "photo-1473186578172-c141e6798cf4?q=80&w=1000", "Heritage Rouge et Noir Front View"},
			{unsplash + "photo-1518826778770-a729fb53327c?q=80&w=1000", "Heritage Rouge et Noir Detail"},
		},
		Specifications: model.Specifications{
			NibSize: model.NibMedium, NibMaterial: "14K Gold", Material: "Black Precious Resin",
			TrimColor: model.TrimRuthenium, Length: "136mm", Weight: "27g", FillingSystem: model.FillingPiston,
		},
	},
	{
		Name:             "Heritage Egyptomania Fountain Pen",
		Slug:             "heritage-egyptomania",
		CollectionSlug:   "heritage",
		Price:            1280,
		SKU:              "MB-HR-EG",
		ShortDescription: "A tribute to ancient Egypt with Art Deco motifs, lacquered in shimmering gold and black.",
		Stock:            2,
		Images: []imageData{
			{unsplash + "photo-1517842264405-72bb906a1936?q=80&w=1000", "Heritage Egyptomania Front View"},
			{unsplash + "photo-1544816155-12df9643f363?q=80&w=1000", "Heritage Egyptomania Side View"},
		},
		Specifications: model.Specifications{
			NibSize: model.NibMedium, NibMaterial: "18K Gold", Material: "Lacquer",
			TrimColor: model.TrimGold, Length: "139mm", Weight: "29g", FillingSystem: model.FillingPiston,
		},
	},
	{
		Name:             "Writers Edition Homage to Homer",
		Slug:             "writers-edition-homer",
		CollectionSlug:   "writers-edition",
		Price:            1460,
		SKU:              "MB-WE-HM",
		ShortDescription: "A limited edition masterpiece celebrating the author of the Odyssey, with hand-engraved cap and barrel.",
		Stock:            1,
		Featured:         true,
		Images: []imageData{
			{unsplash + "photo-1501618669935-18b6ecb13d6d?q=80&w=1000", "Writers Edition Homer Front View"},
			{unsplash + "photo-1518826778770-a729fb53327c?q=80&w=1000", "Writers Edition Homer Nib Detail"},
		},
		Specifications: model.Specifications{
			NibSize: model.NibBroad, NibMaterial: "18K Gold", Material: "Precious Resin with Engraving",
			TrimColor: model.TrimGold, Length: "148mm", Weight: "34g", FillingSystem: model.FillingPiston,
		},
	},
}
