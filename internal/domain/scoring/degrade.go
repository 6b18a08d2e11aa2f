package scoring

import (
	"errors"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
)

// Player-facing comments shown in place of a real verdict.
const (
	CommentUpstream       = "Incluso la IA se ha quedado sin palabras ante semejante... cosa."
	CommentParse          = "La IA ha balbuceado algo ininteligible. Vuelve a intentarlo."
	CommentConfiguration  = "El evaluador no está configurado. Avisa al administrador."
	CommentInvalidRequest = "Faltan parámetros en la petición."
)

// Degrade turns a scoring failure into the error result shown to the player:
// a zero score and a human readable comment. The result is never cacheable.
func Degrade(err error) model.ScoreResult {
	comment := CommentUpstream
	switch {
	case errors.Is(err, ErrConfiguration):
		comment = CommentConfiguration
	case errors.Is(err, ErrInvalidRequest):
		comment = CommentInvalidRequest
	case errors.Is(err, ErrParse):
		comment = CommentParse
	}
	return model.ScoreResult{Score: 0, Comment: comment, IsError: true}
}
