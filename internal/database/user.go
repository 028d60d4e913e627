package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
)

func (c *Client) CreateUser(ctx context.Context, name, color string) (*User, error) {
	user := User{
		Name:  name,
		Color: color,
	}
	if err := c.db.WithContext(ctx).Create(&user).Error; err != nil {
		log.Error("failed to create user", "error", err)
		return nil, translateError(err)
	}
	return &user, nil
}

func (c *Client) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).First(&user, id).Error; err != nil {
		err = translateError(err)
		if !errors.Is(err, ErrNotFound) {
			log.Error("failed to get user by ID", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

// GetAllUsers returns all users ordered by id.
func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		log.Error("failed to get all users", "error", err)
		return nil, translateError(err)
	}
	return users, nil
}

func (c *Client) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}
