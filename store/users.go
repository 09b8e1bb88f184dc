package store

import "backoffice/models"

func (s *Store) User(id int64) (models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}
