package generator

import "fmt"

var artistNames = []string{
	"The Beatles",
	"Queen",
	"Michael Jackson",
	"Madonna",
	"Elvis Presley",
	"Bob Dylan",
	"The Rolling Stones",
	"Led Zeppelin",
	"Pink Floyd",
	"David Bowie",
	"Beyoncé",
	"Taylor Swift",
	"Ed Sheeran",
	"Adele",
	"Drake",
	"Kanye West",
	"Eminem",
	"Jay-Z",
	"Rihanna",
	"Lady Gaga",
	"Bruno Mars",
	"The Weeknd",
	"Billie Eilish",
	"Ariana Grande",
	"Post Malone",
}

var albumTitles = []string{
	"Abbey Road",
	"Dark Side of the Moon",
	"Thriller",
	"Back in Black",
	"The Wall",
	"Rumours",
	"Hotel California",
	"Led Zeppelin IV",
	"Born to Run",
	"Purple Rain",
	"OK Computer",
	"Nevermind",
	"The Joshua Tree",
	"London Calling",
	"Pet Sounds",
	"Revolver",
	"What's Going On",
	"Exile on Main St.",
	"Born in the U.S.A.",
	"Blood on the Tracks",
}

var songTitles = []string{
	"Bohemian Rhapsody",
	"Hey Jude",
	"Like a Rolling Stone",
	"Smells Like Teen Spirit",
	"Hotel California",
	"Stairway to Heaven",
	"Billie Jean",
	"Purple Haze",
	"Good Vibrations",
	"What's Going On",
	"Respect",
	"Johnny B. Goode",
	"Hound Dog",
	"Let It Be",
	"Born to Run",
	"Imagine",
	"My Generation",
	"I Can't Get No Satisfaction",
	"Brown Sugar",
	"Layla",
}

var playlistNames = []string{
	"My Favorites",
	"Road Trip Mix",
	"Workout Playlist",
	"Chill Vibes",
	"Party Hits",
	"Study Music",
	"Late Night Jazz",
	"90s Nostalgia",
	"Rock Classics",
	"Pop Hits",
	"Summer Vibes",
	"Rainy Day Blues",
	"Feel Good Songs",
	"Throwback Thursday",
	"Indie Discoveries",
	"Electronic Dreams",
	"Country Roads",
	"Hip Hop Essentials",
}

var countries = []string{
	"United States",
	"United Kingdom",
	"Canada",
	"Australia",
	"Germany",
	"France",
	"Italy",
	"Spain",
	"Sweden",
	"Japan",
	"South Korea",
	"Brazil",
}

var genres = []string{
	"Rock",
	"Pop",
	"Hip Hop",
	"R&B",
	"Electronic",
	"Jazz",
	"Blues",
	"Country",
	"Folk",
	"Classical",
	"Reggae",
	"Punk",
	"Metal",
	"Indie",
}

var firstNames = []string{
	"John", "Emma", "Liam", "Olivia", "Noah", "Ava", "Lucas", "Mia", "Ethan", "Sofia",
	"Mason", "Chloe", "Logan", "Zoe", "Aiden", "Lily", "Jack", "Grace", "Ryan", "Nora",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Martinez", "Lopez",
	"Wilson", "Anderson", "Taylor", "Thomas", "Moore", "Martin", "Lee", "O'Brien", "Walker", "Young",
}

const (
	playlistDescription = "A curated playlist of amazing songs for every occasion."
	adminDescription    = "Administrator with full access"
	userDescription     = "Standard application user"
)

// nameOrFallback returns list[i] while it lasts, then "{prefix} {i+1}".
func nameOrFallback(list []string, i int, prefix string) string {
	if i < len(list) {
		return list[i]
	}
	return fmt.Sprintf("%s %d", prefix, i+1)
}

// cycledName walks list repeatedly and suffixes the pass number from the second pass on.
func cycledName(list []string, i int) string {
	name := list[i%len(list)]
	if i >= len(list) {
		return fmt.Sprintf("%s %d", name, i/len(list)+1)
	}
	return name
}

func artistBio(name string) string {
	return fmt.Sprintf("Bio for %s. A talented musician with years of experience.", name)
}

func albumDescription(id int) string {
	return fmt.Sprintf("Description for album %d. A collection of amazing tracks.", id)
}
