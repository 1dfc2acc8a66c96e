package service

import (
	"overcooked-menu/internal/domain"

	"github.com/google/uuid"
)

// sampleDishes is the starter menu written when the dishes collection is empty,
// one dish per category.
func sampleDishes(images ImageStore, timestamp string) []domain.Dish {
	dishes := []domain.Dish{
		{
			Name:        "Braised Pork Belly",
			Category:    "hot",
			Price:       48.0,
			Description: "A classic slow-braised dish, rich but never greasy",
			Ingredients: []string{"pork belly", "scallion", "ginger", "garlic", "rock sugar", "soy sauce", "cooking wine"},
			Steps: []string{
				"Cut the pork belly into even cubes and blanch to remove impurities",
				"Melt rock sugar in a little oil over low heat until amber",
				"Add the pork and stir until coated and browned",
				"Add scallion, ginger, garlic, soy sauce, cooking wine and water",
				"Bring to a boil, then simmer on low heat for one hour",
				"Reduce the sauce over high heat and serve",
			},
		},
		{
			Name:        "Smashed Cucumber Salad",
			Category:    "cold",
			Price:       18.0,
			Description: "Crisp and refreshing, a summer favourite",
			Ingredients: []string{"cucumber", "garlic", "black vinegar", "light soy sauce", "sesame oil", "salt", "sugar", "chili oil"},
			Steps: []string{
				"Wash the cucumbers, smash them and cut into pieces",
				"Mince the garlic",
				"Put the cucumber in a bowl and add the garlic",
				"Add vinegar, soy sauce, sesame oil, salt, sugar and chili oil",
				"Toss well and serve",
			},
		},
		{
			Name:        "Egg Fried Rice",
			Category:    "staple",
			Price:       22.0,
			Description: "Simple home-style comfort food",
			Ingredients: []string{"cooked rice", "eggs", "scallion", "salt", "soy sauce", "cooking oil"},
			Steps: []string{
				"Use day-old rice",
				"Beat the eggs",
				"Scramble the eggs in hot oil",
				"Add the rice and break up any clumps",
				"Season with salt and soy sauce",
				"Finish with chopped scallion and toss evenly",
			},
		},
		{
			Name:        "Honey Lemonade",
			Category:    "drink",
			Price:       12.0,
			Description: "Bright, tangy and thirst-quenching",
			Ingredients: []string{"lemon", "honey", "warm water"},
			Steps: []string{
				"Wash and slice the lemon",
				"Put the lemon slices in a glass",
				"Add honey",
				"Pour in warm water and stir",
				"Adjust the honey to taste",
			},
		},
		{
			Name:        "Caffe Latte",
			Category:    "coffee",
			Price:       22.0,
			Description: "Smooth espresso with creamy milk",
			Ingredients: []string{"espresso", "milk", "milk foam"},
			Steps: []string{
				"Pull a shot of espresso",
				"Heat the milk to 60-70°C",
				"Froth the milk",
				"Pour the espresso into a cup",
				"Slowly pour in the hot milk",
				"Top with milk foam",
			},
		},
		{
			Name:        "Tiramisu",
			Category:    "dessert",
			Price:       28.0,
			Description: "The Italian classic, soft and light",
			Ingredients: []string{"mascarpone", "ladyfingers", "coffee", "egg yolks", "sugar", "cocoa powder"},
			Steps: []string{
				"Brew the coffee and let it cool",
				"Whisk the egg yolks with sugar until pale",
				"Fold in the mascarpone",
				"Dip the ladyfingers in coffee for two seconds",
				"Line the dish with the soaked ladyfingers",
				"Spread a layer of the cream",
				"Repeat until the dish is full",
				"Dust the top with cocoa powder",
				"Chill for at least four hours",
			},
		},
	}

	for i := range dishes {
		dishes[i].ID = uuid.NewString()
		dishes[i].ImagePath = images.DefaultDishImage(dishes[i].Category)
		dishes[i].Timestamp = timestamp
	}
	return dishes
}
