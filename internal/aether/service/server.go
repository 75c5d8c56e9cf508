package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/apierror"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/idgen"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/pterodactyl"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ServerService 服务器编排服务
// 本地记录是资源记账的权威，面板实体跟随本地记录创建和删除
type ServerService struct {
	userRepo   repository.UserRepository
	serverRepo repository.ServerRepository
	panelRepo  repository.PanelRepository
	client     pterodactyl.API
	idGen      *idgen.Generator
}

// NewServerService 创建服务器服务
func NewServerService(
	userRepo repository.UserRepository,
	serverRepo repository.ServerRepository,
	panelRepo repository.PanelRepository,
	client pterodactyl.API,
) *ServerService {
	return &ServerService{
		userRepo:   userRepo,
		serverRepo: serverRepo,
		panelRepo:  panelRepo,
		client:     client,
		idGen:      idgen.New(),
	}
}

// Create 创建服务器
// 顺序：预检配额 -> 面板建实体（如已配置面板）-> 本地落库（事务内复核配额）
// 本地落库失败时删掉刚建的面板实体，不留孤儿
func (s *ServerService) Create(ctx context.Context, userID string, req *entity.CreateServerRequest) (*entity.Server, error) {
	logger := zerolog.Ctx(ctx)

	owner, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrNotFound
		}
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	// 预检只为了尽早给出友好错误，权威检查在落库事务里
	if err := s.precheckCapacity(ctx, owner, req.RAM, req.CPU, req.Storage, true); err != nil {
		return nil, err
	}

	id, err := s.idGen.GenerateServerID()
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	server := &model.Server{
		ID:        id,
		UserID:    owner.ID,
		Name:      strings.TrimSpace(req.Name),
		RAM:       req.RAM,
		CPU:       req.CPU,
		Storage:   req.Storage,
		EggID:     req.EggID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if s.client.IsConfigured(ctx) {
		if err := s.provisionRemote(ctx, owner, server, req); err != nil {
			return nil, err
		}
	} else {
		// 面板未配置时只建本地记录，等面板接入后再补实体
		logger.Warn().Str("server_id", id).Msg("panel not configured, creating local record only")
	}

	if err := s.serverRepo.CreateWithCapacityCheck(ctx, server, owner); err != nil {
		// 面板实体已经建出来了，必须删掉
		if server.PterodactylID != 0 {
			if delErr := s.client.DeleteServer(ctx, server.PterodactylID); delErr != nil {
				logger.Error().Err(delErr).
					Int64("pterodactyl_id", server.PterodactylID).
					Msg("cleanup of remote server failed, orphan left on panel")
			}
		}
		return nil, capacityError(err)
	}

	logger.Info().
		Str("server_id", server.ID).
		Str("user_id", owner.ID).
		Int64("pterodactyl_id", server.PterodactylID).
		Msg("server created")
	return serverView(server)
}

// provisionRemote 在面板上创建服务器实体并回填本地字段
func (s *ServerService) provisionRemote(ctx context.Context, owner *model.User, server *model.Server, req *entity.CreateServerRequest) error {
	remoteUser, err := s.resolvePanelUser(ctx, owner)
	if err != nil {
		return err
	}

	egg, err := s.panelRepo.GetEgg(ctx, req.EggID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NewErrorWithStatus("InvalidParameter", "unknown egg, sync eggs first", 400)
		}
		return apierror.Wrap(apierror.ErrInternalError, err)
	}

	allocation, err := s.panelRepo.PickAllocation(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NewErrorWithStatus("NoAllocationAvailable", "no allocation available, sync allocations first", 503)
		}
		return apierror.Wrap(apierror.ErrInternalError, err)
	}

	environment := map[string]string{}
	if egg.VariablesJSON != "" {
		var variables []pterodactyl.EggVariable
		if err := json.Unmarshal([]byte(egg.VariablesJSON), &variables); err == nil {
			for _, v := range variables {
				environment[v.EnvVariable] = v.DefaultValue
			}
		}
	}

	payload, err := s.client.CreateServer(ctx, &pterodactyl.CreateServerRequest{
		Name:        server.Name,
		User:        remoteUser,
		Egg:         egg.EggID,
		DockerImage: egg.DockerImage,
		Startup:     egg.Startup,
		Environment: environment,
		Limits: pterodactyl.Limits{
			Memory: server.RAM,
			Swap:   0,
			CPU:    server.CPU,
			Disk:   server.Storage,
			IO:     500,
		},
		FeatureLimits: pterodactyl.FeatureLimits{Databases: 0, Allocations: 1, Backups: 0},
		Allocation:    &pterodactyl.AllocationSelect{Default: allocation.AllocationID},
	})
	if err != nil {
		return panelError(err)
	}

	server.PterodactylID = payload.Attributes.ID.Int64()
	server.Identifier = payload.Attributes.Identifier
	server.PublicAddress = payload.PublicAddress()
	if server.PublicAddress == "" {
		// 创建响应里经常不带分配数据，补一次详情查询
		// 查不到也不致命，List 的时候还会惰性回填
		if detail, detailErr := s.client.ServerDetails(ctx, server.PterodactylID); detailErr == nil {
			server.PublicAddress = detail.PublicAddress()
		} else {
			zerolog.Ctx(ctx).Warn().Err(detailErr).
				Str("server_id", server.ID).
				Msg("fetch address after create failed, will backfill later")
		}
	}

	// 分配已被占用，从候选池里移除
	if err := s.panelRepo.RemoveAllocation(ctx, allocation.AllocationID); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Int64("allocation_id", allocation.AllocationID).
			Msg("remove consumed allocation from cache failed")
	}
	return nil
}

// resolvePanelUser 解析本地用户在面板上的账号 ID
// 本地没存的话按邮箱找一次并回填，面板上也没有就失败
// 面板账号由管理员的用户同步创建，这里不建新账号
func (s *ServerService) resolvePanelUser(ctx context.Context, owner *model.User) (int64, error) {
	if owner.PterodactylUserID != 0 {
		return owner.PterodactylUserID, nil
	}

	remote, err := s.client.UserByEmail(ctx, owner.Email)
	if err != nil {
		return 0, panelError(err)
	}
	if remote == nil {
		return 0, apierror.NewErrorWithStatus(
			"PanelUserMissing",
			"your account has no matching panel user yet, ask an administrator to run the user sync",
			409,
		)
	}

	remoteID := remote.ID.Int64()
	if err := s.userRepo.SetPterodactylUserID(ctx, owner.ID, remoteID); err != nil {
		return 0, apierror.Wrap(apierror.ErrInternalError, err)
	}
	owner.PterodactylUserID = remoteID
	return remoteID, nil
}

// List 用户的服务器列表
// 已经有地址的服务器不碰面板，缺地址的才惰性回填
func (s *ServerService) List(ctx context.Context, userID string) (*entity.ServerListResponse, error) {
	servers, err := s.serverRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	out := make([]*entity.Server, 0, len(servers))
	for _, srv := range servers {
		if srv.PublicAddress == "" && srv.PterodactylID != 0 && s.client.IsConfigured(ctx) {
			s.backfillAddress(ctx, srv)
		}
		view, err := serverView(srv)
		if err != nil {
			return nil, apierror.Wrap(apierror.ErrInternalError, err)
		}
		out = append(out, view)
	}
	return &entity.ServerListResponse{Servers: out}, nil
}

// backfillAddress 从面板补齐服务器地址，失败只记日志
func (s *ServerService) backfillAddress(ctx context.Context, srv *model.Server) {
	logger := zerolog.Ctx(ctx)

	payload, err := s.client.ServerDetails(ctx, srv.PterodactylID)
	if err != nil {
		logger.Warn().Err(err).Str("server_id", srv.ID).Msg("fetch server details for address backfill failed")
		return
	}
	address := payload.PublicAddress()
	if address == "" {
		return
	}
	srv.PublicAddress = address
	if srv.Identifier == "" {
		srv.Identifier = payload.Attributes.Identifier
	}
	if err := s.serverRepo.Update(ctx, srv); err != nil {
		logger.Warn().Err(err).Str("server_id", srv.ID).Msg("persist backfilled address failed")
	}
}

// Get 获取单个服务器，校验归属
func (s *ServerService) Get(ctx context.Context, userID string, serverID string) (*entity.Server, error) {
	srv, err := s.ownedServer(ctx, userID, serverID)
	if err != nil {
		return nil, err
	}
	return serverView(srv)
}

// Delete 删除服务器
// 面板实体尽力删，删不掉不阻塞本地删除，配额必须立刻释放
func (s *ServerService) Delete(ctx context.Context, userID string, serverID string) error {
	logger := zerolog.Ctx(ctx)

	srv, err := s.ownedServer(ctx, userID, serverID)
	if err != nil {
		return err
	}

	if srv.PterodactylID != 0 && s.client.IsConfigured(ctx) {
		if err := s.client.DeleteServer(ctx, srv.PterodactylID); err != nil {
			var apiErr *pterodactyl.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
				// 面板上已经没了，本地照常删
				logger.Info().Str("server_id", srv.ID).Msg("remote server already gone")
			} else {
				logger.Error().Err(err).Str("server_id", srv.ID).Msg("delete remote server failed, continuing with local delete")
			}
		}
	}

	if err := s.serverRepo.Delete(ctx, srv.ID); err != nil {
		return apierror.Wrap(apierror.ErrInternalError, err)
	}

	logger.Info().Str("server_id", srv.ID).Str("user_id", userID).Msg("server deleted")
	return nil
}

// Resize 调整服务器规格
// 本地先过权威配额检查，远端失败时把本地改回去
func (s *ServerService) Resize(ctx context.Context, userID string, serverID string, req *entity.ResizeServerRequest) (*entity.Server, error) {
	logger := zerolog.Ctx(ctx)

	srv, err := s.ownedServer(ctx, userID, serverID)
	if err != nil {
		return nil, err
	}
	owner, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	oldRAM, oldCPU, oldStorage := srv.RAM, srv.CPU, srv.Storage
	if err := s.serverRepo.UpdateResourcesWithCapacityCheck(ctx, srv.ID, owner, req.RAM, req.CPU, req.Storage); err != nil {
		return nil, capacityError(err)
	}

	if srv.PterodactylID != 0 && s.client.IsConfigured(ctx) {
		_, err := s.client.UpdateBuild(ctx, srv.PterodactylID, pterodactyl.BuildUpdate{
			Memory: req.RAM,
			CPU:    req.CPU,
			Disk:   req.Storage,
		})
		if err != nil {
			// 远端没改成，本地也不能留新值
			if revertErr := s.serverRepo.UpdateResourcesWithCapacityCheck(ctx, srv.ID, owner, oldRAM, oldCPU, oldStorage); revertErr != nil {
				logger.Error().Err(revertErr).Str("server_id", srv.ID).Msg("revert local resources failed, records diverged from panel")
			}
			return nil, panelError(err)
		}
	}

	srv.RAM, srv.CPU, srv.Storage = req.RAM, req.CPU, req.Storage
	logger.Info().
		Str("server_id", srv.ID).
		Int64("ram", req.RAM).
		Int64("cpu", req.CPU).
		Int64("storage", req.Storage).
		Msg("server resized")
	return serverView(srv)
}

// ownedServer 按归属取服务器
// 别人的服务器和不存在的服务器都返回 NotFound，不泄露存在性
func (s *ServerService) ownedServer(ctx context.Context, userID string, serverID string) (*model.Server, error) {
	srv, err := s.serverRepo.GetByID(ctx, serverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrNotFound
		}
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	if srv.UserID != userID {
		return nil, apierror.ErrNotFound
	}
	return srv, nil
}

// precheckCapacity 非权威的配额预检
func (s *ServerService) precheckCapacity(ctx context.Context, owner *model.User, ram int64, cpu int64, storage int64, newServer bool) error {
	usage, err := s.serverRepo.Usage(ctx, owner.ID)
	if err != nil {
		return apierror.Wrap(apierror.ErrInternalError, err)
	}
	if newServer && usage.Servers >= owner.TotalSlots {
		return apierror.ErrServerSlotLimitExceeded
	}
	switch {
	case usage.RAM+ram > owner.TotalRAM:
		return insufficientCapacity(entity.ResourceRAM, ram, owner.TotalRAM-usage.RAM)
	case usage.CPU+cpu > owner.TotalCPU:
		return insufficientCapacity(entity.ResourceCPU, cpu, owner.TotalCPU-usage.CPU)
	case usage.Storage+storage > owner.TotalStorage:
		return insufficientCapacity(entity.ResourceStorage, storage, owner.TotalStorage-usage.Storage)
	}
	return nil
}

// insufficientCapacity 配额不足错误，消息里带上是哪种资源差多少
func insufficientCapacity(resource string, need int64, have int64) *apierror.Error {
	return apierror.NewErrorWithStatus(
		apierror.ErrInsufficientResourceCapacity.Code,
		fmt.Sprintf("not enough %s: this needs %d but only %d is available, buy more from the store", resource, need, have),
		apierror.ErrInsufficientResourceCapacity.HTTPStatus,
	)
}

// capacityError 把仓库层的配额错误翻译成对外错误
func capacityError(err error) error {
	var shortfall *repository.CapacityError
	switch {
	case errors.Is(err, repository.ErrSlotLimitExceeded):
		return apierror.ErrServerSlotLimitExceeded
	case errors.As(err, &shortfall):
		return insufficientCapacity(shortfall.Resource, shortfall.Need, shortfall.Have)
	case errors.Is(err, repository.ErrInsufficientCapacity):
		return apierror.ErrInsufficientResourceCapacity
	}
	return apierror.Wrap(apierror.ErrInternalError, err)
}

// serverView 转换成对外视图
func serverView(srv *model.Server) (*entity.Server, error) {
	view, err := serverModelToEntity(srv)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	return view, nil
}
