package catalog

import "github.com/placefinder/placefinder/internal/places"

// Seed is the upstream catalog served when no database is configured.
var Seed = []places.Place{
	{
		ID: "0b6f6a1e-2f3c-4f6e-9a51-6f3f1c1d0a01", Name: "Bratislava Castle", ImageName: "castle.jpg",
		Description: "Castle above the Danube with a baroque garden.", Contact: "+421 2 2048 3110",
		Address: "Zámocká 2, Bratislava", GPS: "48.1421, 17.1000", Fun: true, Events: true,
	},
	{
		ID: "0b6f6a1e-2f3c-4f6e-9a51-6f3f1c1d0a02", Name: "Kamzík TV Tower", ImageName: "kamzik.jpg",
		Description: "Observation deck and restaurant in the Little Carpathians.", Contact: "+421 2 4446 2801",
		Address: "Cesta na Kamzík 14, Bratislava", GPS: "48.1828, 17.0946", Meals: true, Hiking: true,
	},
	{
		ID: "0b6f6a1e-2f3c-4f6e-9a51-6f3f1c1d0a03", Name: "Zlaté piesky", ImageName: "piesky.jpg",
		Description: "Lake with beaches, water sports and a campsite.", Contact: "+421 2 4425 7373",
		Address: "Senecká cesta 2, Bratislava", GPS: "48.1889, 17.1853", Sport: true, Accomodation: true,
	},
	{
		ID: "0b6f6a1e-2f3c-4f6e-9a51-6f3f1c1d0a04", Name: "Old Market Hall", ImageName: "trznica.jpg",
		Description: "Weekend food market and concert venue.", Contact: "+421 2 5443 2104",
		Address: "Námestie SNP 25, Bratislava", GPS: "48.1446, 17.1104", Meals: true, Events: true,
	},
}
