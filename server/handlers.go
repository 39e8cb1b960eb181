package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/network"
)

type createRequest struct {
	NetworkID string `json:"network_id"`
}

type saveRequest struct {
	Filepath string `json:"filepath"`
}

type loadRequest struct {
	Filepath string               `json:"filepath"`
	Config   *network.Description `json:"config"`
}

type runRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// bindOptional decodes an optional JSON body; an empty body leaves v as is.
func bindOptional(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}
	return nil
}

// resolvePath anchors relative paths at NetworksDir and rejects paths that
// leave it.
func (s *Server) resolvePath(p string) (string, error) {
	if p == "" {
		return "", nil
	}

	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: filepath %q must be relative and stay inside the networks directory", core.ErrInvalidArgument, p)
	}

	return filepath.Join(s.opts.NetworksDir, p), nil
}

func (s *Server) listNetworks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"networks": s.svc.NetworkIDs()})
}

func (s *Server) createNetwork(c *gin.Context) {
	var req createRequest
	if err := bindOptional(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	id, err := s.svc.CreateNetwork(req.NetworkID)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"network_id": id, "status": "created"})
}

func (s *Server) getNetwork(c *gin.Context) {
	d, err := s.svc.Describe(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

func (s *Server) updateNetwork(c *gin.Context) {
	var d network.Description
	if err := c.ShouldBindJSON(&d); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err))
		return
	}

	id := c.Param("id")
	if err := s.svc.UpdateNetwork(id, &d); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"network_id": id, "status": "updated"})
}

func (s *Server) deleteNetwork(c *gin.Context) {
	id := c.Param("id")
	if err := s.svc.DeleteNetwork(id); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"network_id": id, "status": "deleted"})
}

func (s *Server) saveNetwork(c *gin.Context) {
	var req saveRequest
	if err := bindOptional(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	path, err := s.resolvePath(req.Filepath)
	if err != nil {
		s.fail(c, err)
		return
	}

	id := c.Param("id")
	d, err := s.svc.SaveNetwork(id, path)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"network_id": id, "config": d})
}

func (s *Server) loadNetwork(c *gin.Context) {
	var req loadRequest
	if err := bindOptional(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	path, err := s.resolvePath(req.Filepath)
	if err != nil {
		s.fail(c, err)
		return
	}

	id := c.Param("id")
	if err := s.svc.LoadNetwork(id, path, req.Config); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"network_id": id, "status": "loaded"})
}

func (s *Server) runNetwork(c *gin.Context) {
	var req runRequest
	if err := bindOptional(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.svc.RunNetwork(c.Request.Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) execute(c *gin.Context) {
	var d network.Description
	if err := c.ShouldBindJSON(&d); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err))
		return
	}

	res, err := s.svc.Execute(c.Request.Context(), &d)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) order(c *gin.Context) {
	id := c.Param("id")

	order, err := s.svc.Order(id)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"network_id": id, "order": order})
}

func (s *Server) listRuns(c *gin.Context) {
	id := c.Param("id")

	runs, err := s.svc.Runs(id)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"network_id": id, "runs": runs})
}

func (s *Server) getRun(c *gin.Context) {
	res, err := s.svc.Report(c.Param("id"), c.Param("run_id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) catalogue(c *gin.Context) {
	infos, err := s.svc.Catalogue()
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, infos)
}

func (s *Server) agentTypes(c *gin.Context) {
	types := s.svc.AgentTypes()
	if d := c.Query("domain"); d != "" {
		c.JSON(http.StatusOK, orEmpty(types[d]))
		return
	}

	c.JSON(http.StatusOK, types)
}

func (s *Server) taskTypes(c *gin.Context) {
	types := s.svc.TaskTypes()
	if d := c.Query("domain"); d != "" {
		c.JSON(http.StatusOK, orEmpty(types[d]))
		return
	}

	c.JSON(http.StatusOK, types)
}

func (s *Server) agentParams(c *gin.Context) {
	params, err := s.svc.AgentParams(c.Query("domain"), c.Query("type"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, params)
}

func (s *Server) taskParams(c *gin.Context) {
	params, err := s.svc.TaskParams(c.Query("domain"), c.Query("type"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, params)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
