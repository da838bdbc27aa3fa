package services

import "github.com/Rufidatul726/jotter-backend/repositories"

type Container struct {
	Auth AuthService
	User UserService
	File FileService
}

func NewContainer(repos repositories.Container) *Container {
	return &Container{
		Auth: NewAuthService(repos.TxManager, repos.Users, repos.Nodes, repos.UsageCache),
		User: NewUserService(repos.Users, repos.UsageCache),
		File: NewFileService(repos.TxManager, repos.Users, repos.Nodes, repos.UsageCache),
	}
}
