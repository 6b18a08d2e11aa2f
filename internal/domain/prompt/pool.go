package prompt

// DefaultPool is the built-in list of daily prompt words.
var DefaultPool = []string{ //nolint:gochecknoglobals // static word list
	"Olvido", "Cicatriz", "Eco", "Vértigo", "Susurro", "Órbita", "Espejismo", "Raíz", "Diluvio", "Ceniza",
	"Brújula", "Naufragio", "Hilo", "Puente", "Sombra", "Latido", "Velo", "Abismo", "Relámpago", "Polvo",
	"Mapa", "Llave", "Marea", "Cristal", "Muro", "Espejo", "Veneno", "Laberinto", "Péndulo", "Horizonte",
	"Grito", "Calma", "Nudo", "Flecha", "Máscara", "Esqueleto", "Néctar", "Ciclo", "Ritmo", "Fuego",
}
