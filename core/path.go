package core

import (
	"fmt"
	"sort"

	errorsmod "cosmossdk.io/errors"
)

// Path is the pair of path ends packets are relayed between
type Path struct {
	Src *PathEnd `json:"src" yaml:"src" mapstructure:"src"`
	Dst *PathEnd `json:"dst" yaml:"dst" mapstructure:"dst"`
}

// Paths maps path names to paths
type Paths map[string]*Path

func (ps Paths) Get(name string) (*Path, error) {
	p, ok := ps[name]
	if !ok {
		return nil, errorsmod.Wrap(ErrPathNotFound, name)
	}
	return p, nil
}

// Add validates `p` and registers it as `name`
func (ps Paths) Add(name string, p *Path) error {
	if _, ok := ps[name]; ok {
		return errorsmod.Wrap(ErrPathAlreadyExists, name)
	}
	if err := p.Validate(); err != nil {
		return errorsmod.Wrapf(err, "path %s", name)
	}
	ps[name] = p
	return nil
}

// Names returns the path names in lexical order
func (ps Paths) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Path) Validate() error {
	if p.Src == nil || p.Dst == nil {
		return errorsmod.Wrap(ErrInvalidPath, "both src and dst are required")
	}
	for _, end := range []*PathEnd{p.Src, p.Dst} {
		if err := end.Validate(); err != nil {
			return err
		}
	}
	if p.Src.ChainID == p.Dst.ChainID {
		return errorsmod.Wrapf(ErrInvalidPath, "src and dst are on the same chain %s", p.Src.ChainID)
	}
	if so, do := p.Src.ChannelOrder(), p.Dst.ChannelOrder(); so != do {
		return errorsmod.Wrapf(ErrInvalidChannelOrdering, "src=%s, dst=%s", so, do)
	}
	return nil
}

func (p *Path) String() string {
	return fmt.Sprintf("%s <-> %s", p.Src, p.Dst)
}
