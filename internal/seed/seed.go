// Package seed bundles the default collections used when no persisted
// data exists yet. Containers fall back to these on first start or when
// the persisted snapshot cannot be read.
package seed

import "github.com/example/storefront/internal/model"

// Categories returns the browsable category list.
func Categories() []model.Category {
	return []model.Category{
		{ID: "electronics", Name: "Featured Electronics", Description: "Latest and greatest gadgets", ImageURL: "https://images.unsplash.com/photo-1525547719571-a2d4ac8945e2?w=400"},
		{ID: "tools", Name: "Essential Tools", Description: "Tools for every job", ImageURL: "https://images.unsplash.com/photo-1556997651-6dcc5a424e64?w=400"},
		{ID: "tyres", Name: "Veganic Tyres & Accessories", Description: "High-performance tyres", ImageURL: "https://images.unsplash.com/photo-1599493356237-720647164228?w=400"},
		{ID: "spare-parts", Name: "Spare Parts Hub", Description: "All the parts you need", ImageURL: "https://images.unsplash.com/photo-1599331779815-3f30b2d35094?w=400"},
		{ID: "headsets", Name: "Bluetooth Headsets", Description: "Listen without limits", ImageURL: "https://i.ibb.co/3d7M7d2/headsets.png"},
		{ID: "batteries", Name: "Batteries", Description: "Power up your devices", ImageURL: "https://i.ibb.co/j32B7zH/batteries.png"},
		{ID: "insect-killers", Name: "Electric Insect Killers", Description: "Bug-free living", ImageURL: "https://i.ibb.co/L5T3hBB/insect-killer.png"},
		{ID: "fashion", Name: "Fashion", Description: "Style for everyone", ImageURL: "https://picsum.photos/seed/fashion/400"},
		{ID: "health", Name: "Health & Beauty", Description: "Wellness products", ImageURL: "https://picsum.photos/seed/health/400"},
	}
}

// Products returns the bundled catalog. A fresh slice is built on every
// call so callers can mutate their copy freely.
func Products() []model.Product {
	return []model.Product{
		{ID: 101, Name: "Weidasi WD-959 Mosquito Bat Rechargeable", Description: "Rechargeable mosquito bat for a bug-free environment.", Price: 549, OriginalPrice: 800, ImageURL: "https://i.ibb.co/gJFJHJq/mosquito-bat.png", CategoryID: "insect-killers"},
		{ID: 102, Name: "LG Plus 32 Smart TV 4K Support FHD", Description: "32-inch Smart TV with 4K support and FHD resolution.", Price: 14100, OriginalPrice: 29700, ImageURL: "https://i.ibb.co/4T7gHqN/tv.png", CategoryID: "electronics"},
		{ID: 103, Name: "OnePlus Nord N30 SE 5G | 128GB ROM + 4GB RAM", Description: "Powerful 5G smartphone with ample storage and RAM.", Price: 15949, OriginalPrice: 16999, ImageURL: "https://i.ibb.co/F83S6hG/oneplus.png", CategoryID: "electronics"},
		{ID: 1, Name: "Smartphone Pro", Description: "The latest smartphone with a stunning display.", Price: 79999, ImageURL: "https://picsum.photos/seed/phone1/400/300", CategoryID: "electronics", FreeShipping: true, Sold: 50},
		{ID: 3, Name: "Wireless Earbuds", Description: "Crystal clear sound, all day comfort.", Price: 4999, ImageURL: "https://i.ibb.co/3d7M7d2/headsets.png", CategoryID: "headsets", FreeShipping: true, Sold: 888},
		{ID: 5, Name: "Cordless Drill", Description: "High-torque drill for tough jobs.", Price: 6999, ImageURL: "https://picsum.photos/seed/drill1/400/300", CategoryID: "tools", Sold: 98},
		{ID: 8, Name: "AA Rechargeable Batteries (4-pack)", Description: "Long-lasting power.", Price: 899, ImageURL: "https://i.ibb.co/j32B7zH/batteries.png", CategoryID: "batteries"},
		{ID: 13, Name: "Brake Pad Set", Description: "High-quality brake pads for safety.", Price: 3999, ImageURL: "https://picsum.photos/seed/brake1/400/300", CategoryID: "spare-parts"},
		{
			ID:            201,
			Name:          "Bata Pacific Slip-On Sandal For Men",
			Description:   "Comfortable and stylish slip-on sandal for men, perfect for casual wear.",
			Price:         434,
			OriginalPrice: 1099,
			FreeShipping:  true,
			Sold:          472,
			ImageURL:      "https://i.ibb.co/pX1gX0s/sandal-main.png",
			Images: []string{
				"https://i.ibb.co/pX1gX0s/sandal-main.png",
				"https://i.ibb.co/VYqZpYg/sandal-2.png",
			},
			CategoryID: "fashion",
			Brand:      "Bata",
			Colors:     []model.ColorOption{{Name: "Deep Brown", ImageURL: "https://i.ibb.co/pX1gX0s/sandal-main.png"}},
			Sizes:      []string{"6", "7", "8", "9", "10"},
			Rating:     &model.Rating{Stars: 4.0, Count: 113},
		},
		{
			ID:            202,
			Name:          "Premium Quality - Rgb Gaming Keyboard Mouse Combo G21-B",
			Description:   "RGB gaming keyboard and mouse combo with customizable lighting and ergonomic design.",
			Price:         1220,
			OriginalPrice: 1500,
			ImageURL:      "https://i.ibb.co/6wm16Y6/keyboard-main.png",
			CategoryID:    "electronics",
			Brand:         "No Brand",
			Colors:        []model.ColorOption{{Name: "White", ImageURL: "https://i.ibb.co/qFx5bMv/keyboard-4.png"}},
			Rating: &model.Rating{
				Stars: 4.5,
				Count: 353,
				Breakdown: &model.RatingBreakdown{
					Five: 281, Four: 27, Three: 14, Two: 6, One: 25,
				},
			},
		},
	}
}

// Reviews returns the bundled review list.
func Reviews() []model.Review {
	return []model.Review{
		{
			ID: "rev1", ProductID: 201, Author: "Mister", Rating: 5,
			Comment:          "Product quality onek valo. Size o ekdom perfect, seller response onek fast.",
			Date:             "2024-11-15",
			VerifiedPurchase: true,
			ImageURLs:        []string{"https://i.ibb.co/pX1gX0s/sandal-main.png"},
			VariantInfo:      "Size: UK 10, Color Family: Deep Brown",
		},
		{ID: "rev2", ProductID: 201, Author: "John Doe", Rating: 5, Comment: "These are the most comfortable sandals I've ever owned! Perfect fit and great quality.", Date: "2024-07-15", VerifiedPurchase: true},
		{ID: "rev3", ProductID: 201, Author: "Mike Smith", Rating: 4, Comment: "Very stylish and comfortable for everyday use. The color is exactly as shown.", Date: "2024-07-12", VerifiedPurchase: true},
		{ID: "rev5", ProductID: 201, Author: "Sarah", Rating: 3, Comment: "Good product, but the delivery was a bit late.", Date: "2024-06-20", VerifiedPurchase: true},
		{
			ID: "rev-kb-1", ProductID: 202, Author: "Honey", Rating: 5,
			Comment:          "nice product... anyone can buy this",
			Date:             "2024-08-24",
			VerifiedPurchase: true,
			VariantInfo:      "Color Family:White",
		},
	}
}

// Orders returns the bundled order history, most recent first.
func Orders() []model.Order {
	return []model.Order{
		{
			ID:         "680002557719421",
			SellerName: "SK New Shop",
			Status:     model.StatusShipped,
			Items: []model.OrderItem{
				{ID: 1001, Name: "DIY Mosquito Killing Bat Circuit - mosquito bat", ImageURL: "https://i.ibb.co/68gPZYy/mosquito-killer-circuit.png", Variant: "Color family:Multicolor", Price: 139, Quantity: 1},
			},
			EstimatedDelivery: "16 Oct-20 Oct",
			DeliveryPartner:   "BD-DEX",
			TrackingHistory: []model.TrackingEvent{
				{Timestamp: "16 Oct 10:32", Status: "Ready for Collection", Description: "Provide your OTP and collect your package at Pick-up Point [Sylhet Sadar]"},
				{Timestamp: "15 Oct 21:05", Status: "Order Reached Delivery Facility", Description: "A rider/driver has been assigned to deliver your package. [Sylhet]"},
				{Timestamp: "15 Oct 03:51", Status: "Departed from Distribution Center", Description: "Your order has departed from the Distribution Center [Dhaka - North]"},
			},
		},
		{
			ID:         "ORD124",
			SellerName: "SL BD",
			Status:     model.StatusCompleted,
			Items: []model.OrderItem{
				{ID: 1002, Name: "Wire Stripper Cutter Tool, Multifunctional Crimper Cable Cutter Pliers", ImageURL: "https://i.ibb.co/BGCs76Z/wire-stripper.png", Variant: "Color family:Wire Cutter-8.5inch", Price: 349, Quantity: 1},
			},
		},
		{
			ID:         "ORD126",
			SellerName: "Electronics Hub",
			Status:     model.StatusToReceive,
			Items: []model.OrderItem{
				{ID: 1, Name: "Smartphone Pro", ImageURL: "https://picsum.photos/seed/phone1/400/300", Variant: "Color: Black", Price: 79999, Quantity: 1},
			},
		},
	}
}
