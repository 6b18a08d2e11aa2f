package service

// Profile is the player's local state.
type Profile struct {
	Nickname     string `json:"nickname"`
	TutorialSeen bool   `json:"tutorialSeen"`
}

// Profile returns the registered nickname and tutorial flag.
func (s *Service) Profile() (Profile, error) {
	if err := s.ready(); err != nil {
		return Profile{}, err
	}
	return Profile{Nickname: s.state.Nickname(), TutorialSeen: s.state.TutorialSeen()}, nil
}

// RegisterNickname stores a non-blank nickname.
func (s *Service) RegisterNickname(name string) (Profile, error) {
	if err := s.ready(); err != nil {
		return Profile{}, err
	}
	if err := s.state.SetNickname(name); err != nil {
		return Profile{}, err
	}
	return s.Profile()
}

// MarkTutorialSeen records that the tutorial was dismissed.
func (s *Service) MarkTutorialSeen() (Profile, error) {
	if err := s.ready(); err != nil {
		return Profile{}, err
	}
	if err := s.state.MarkTutorialSeen(); err != nil {
		return Profile{}, err
	}
	return s.Profile()
}
