package redis

// Manager Redis统一管理器接口
type Manager interface {
	// GetClient 获取基础Redis客户端
	GetClient() Client

	// GetSession 获取Session管理器
	GetSession() SessionManager

	// GetFlash 获取闪现消息存储
	GetFlash() FlashStore

	// GetUserCache 获取用户缓存管理器
	GetUserCache() UserCache
}

// manager Redis统一管理器实现
type manager struct {
	client    Client
	session   SessionManager
	flash     FlashStore
	userCache UserCache
}

// NewManager 创建Redis管理器
func NewManager(client Client) Manager {
	return &manager{
		client:    client,
		session:   NewSessionManager(client),
		flash:     NewFlashStore(client),
		userCache: NewUserCache(client),
	}
}

// GetClient 获取基础Redis客户端
func (m *manager) GetClient() Client {
	return m.client
}

// GetSession 获取Session管理器
func (m *manager) GetSession() SessionManager {
	return m.session
}

// GetFlash 获取闪现消息存储
func (m *manager) GetFlash() FlashStore {
	return m.flash
}

// GetUserCache 获取用户缓存管理器
func (m *manager) GetUserCache() UserCache {
	return m.userCache
}
