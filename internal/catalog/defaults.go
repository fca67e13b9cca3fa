package catalog

import "github.com/sachinhub/saas-sales-agent/pkg/models"

// Default returns the built-in ElasticRun catalog.
func Default() *Catalog {
	return New(defaultProducts(), defaultIndustries())
}

func defaultProducts() []models.Product {
	return []models.Product{
		{
			Name:        "Libera",
			Description: "A comprehensive logistics management platform",
			Features: []models.Feature{
				{Name: "Route Optimization", Description: "AI-powered route optimization for efficient deliveries"},
				{Name: "Real-time Tracking", Description: "Live tracking of all shipments and delivery personnel"},
			},
			Benefits: []string{
				"Reduced delivery costs",
				"Improved customer satisfaction",
				"Enhanced operational efficiency",
			},
			UseCases: []string{
				"Last-mile delivery optimization",
				"Fleet management",
				"Delivery scheduling",
			},
		},
		{
			Name:        "RTMNxt",
			Description: "Route-to-market solution for FMCG companies",
			Features: []models.Feature{
				{Name: "Market Coverage", Description: "Expand market reach through data-driven insights"},
				{Name: "Sales Analytics", Description: "Advanced analytics for sales performance optimization"},
			},
			Benefits: []string{
				"Increased market penetration",
				"Better sales efficiency",
				"Data-driven decision making",
			},
			UseCases: []string{
				"FMCG distribution",
				"Sales force automation",
				"Market expansion",
			},
		},
		{
			Name:        "Mity",
			Description: "AI-Powered Identity and Face Recognition Software for secure workforce verification",
			Features: []models.Feature{
				{Name: "AI-Powered Identity Verification", Description: "Real-time identity verification with liveness detection and selfie verification"},
				{Name: "Face Recognition", Description: "Advanced face recognition that works with masks, helmets, and varying conditions"},
				{Name: "Fraud Prevention", Description: "AI-driven risk prevention engine to block impersonation attempts and duplicate registrations"},
				{Name: "Real-time Monitoring", Description: "Instant alerts and AI-powered monitoring to prevent fraudulent activities"},
			},
			Benefits: []string{
				"99.97% accuracy score",
				"Verifies over 6 million identities monthly",
				"20% increase in CSAT score",
				"No extra hardware required - works with standard cameras",
				"Enterprise-grade protection without excessive costs",
			},
			UseCases: []string{
				"Workforce identity verification",
				"Secure onboarding",
				"Access control",
				"Fraud prevention",
			},
		},
		{
			Name:        "Velocity",
			Description: "Last-mile delivery optimization platform",
			Features: []models.Feature{
				{Name: "Dynamic Routing", Description: "Real-time dynamic routing for last-mile deliveries"},
				{Name: "Delivery Tracking", Description: "End-to-end delivery tracking and monitoring"},
			},
			Benefits: []string{
				"Faster deliveries",
				"Lower operational costs",
				"Better customer experience",
			},
			UseCases: []string{
				"Last-mile delivery",
				"E-commerce fulfillment",
				"Hyperlocal delivery",
			},
		},
		{
			Name:        "Daakia",
			Description: "Intelligent Address Sorting Engine",
			Features: []models.Feature{
				{Name: "Address Verification", Description: "AI-powered address verification and standardization"},
				{Name: "Geocoding", Description: "Accurate geocoding and location intelligence"},
			},
			Benefits: []string{
				"Reduced failed deliveries",
				"Improved address accuracy",
				"Enhanced delivery success rate",
			},
			UseCases: []string{
				"Address verification",
				"Location intelligence",
				"Delivery optimization",
			},
		},
	}
}

func defaultIndustries() []models.Industry {
	return []models.Industry{
		{
			Name:        "E-commerce",
			Description: "Digital retail and online marketplace solutions",
			UseCases:    []string{"Last-mile delivery", "Inventory management", "Order fulfillment"},
			Challenges:  []string{"High delivery costs", "Meeting delivery timelines", "Managing returns"},
			Solutions:   []string{"Optimized delivery routes", "Real-time tracking", "Automated dispatch"},
		},
		{
			Name:        "FMCG",
			Description: "Fast-moving consumer goods distribution",
			UseCases:    []string{"Distribution network optimization", "Sales force management", "Market penetration"},
			Challenges:  []string{"Market coverage", "Stock management", "Sales efficiency"},
			Solutions:   []string{"Data-driven market insights", "Sales force automation", "Real-time inventory tracking"},
		},
	}
}
