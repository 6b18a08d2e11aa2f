package reveal

import "math/rand/v2"

// ThinkingMessages are shown once, in order, before the first result.
var ThinkingMessages = []string{ //nolint:gochecknoglobals // static copy
	"ESCANEANDO SINAPSIS CREATIVAS...",
	"MIDIENDO LA DISTANCIA ENTRE LO OBVIO Y LO ABSURDO...",
	"CONSULTANDO EL ARCHIVO DE CLICHÉS...",
	"ANALIZANDO NIVELES DE SARCASMO...",
	"CALCULANDO EL VEREDICTO FINAL...",
}

// NewRoundMessages greet the players when a round is restarted.
var NewRoundMessages = []string{ //nolint:gochecknoglobals // static copy
	"GENIAL, OTRA VEZ...",
	"BUSCANDO UNA PALABRA QUE NO SEA DEMASIADO DIFÍCIL PARA VOSOTROS...",
	"REINICIANDO LOS MOTORES DE LA CREATIVIDAD...",
	"ESTA VEZ, INTENTAD QUE SEA POÉTICO...",
	"PREPARANDO EL SIGUIENTE ENIGMA...",
}

// NewRoundMessage picks one of NewRoundMessages.
func NewRoundMessage() string {
	return NewRoundMessages[rand.IntN(len(NewRoundMessages))] //nolint:gosec // cosmetic choice
}
