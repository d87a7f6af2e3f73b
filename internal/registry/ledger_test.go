package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/spec-kit/land-registry/internal/domain"
	"github.com/spec-kit/land-registry/internal/events"
	util "github.com/spec-kit/land-registry/pkg/util"
)

const (
	adminAddr     = "0x00000000000000000000000000000000000000ad"
	aliceAddr     = "0x000000000000000000000000000000000000a11c"
	bobAddr       = "0x0000000000000000000000000000000000000b0b"
	inspectorAddr = "0x000000000000000000000000000000000000175e"
	strangerAddr  = "0x0000000000000000000000000000000000000bad"
)

// recordingDispatcher captures published events in order.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

type LedgerSuite struct {
	suite.Suite
	ledger     *Ledger
	dispatcher *recordingDispatcher
	ctx        context.Context
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.dispatcher = &recordingDispatcher{}
	s.ledger = NewLedger(adminAddr, s.dispatcher, zap.NewNop())
	s.ctx = context.Background()
}

// registerAll registers alice, bob and an inspector, and promotes the
// inspector. Most lifecycle tests start from this population.
func (s *LedgerSuite) registerAll() {
	for _, addr := range []string{aliceAddr, bobAddr, inspectorAddr} {
		_, err := s.ledger.RegisterUser(s.ctx, addr)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.ledger.AssignRole(s.ctx, adminAddr, inspectorAddr, domain.RoleInspector))
}

// listedProperty walks a fresh parcel to ForSale and returns its id.
func (s *LedgerSuite) listedProperty(price uint64) uint64 {
	id, err := s.ledger.RegisterLand(s.ctx, aliceAddr, LandRegistration{
		SurveyID:     "SRV-100",
		DocumentHash: "bafybeideed",
		Location:     "Sector 7, Plot 12",
		Area:         "1200 sqm",
		Price:        price,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.ledger.ApproveProperty(s.ctx, inspectorAddr, id))
	s.Require().NoError(s.ledger.MarkForSale(s.ctx, aliceAddr, id, nil))
	return id
}

func (s *LedgerSuite) TestBootstrap() {
	s.Run("deployer is registered as admin", func() {
		s.True(s.ledger.IsRegistered(adminAddr))
		s.True(s.ledger.HasRole(adminAddr, domain.RoleAdmin))
	})

	s.Run("admin role is exact, not implied", func() {
		s.False(s.ledger.HasRole(adminAddr, domain.RoleInspector))
		s.False(s.ledger.HasRole(adminAddr, domain.RoleUser))
	})
}

func (s *LedgerSuite) TestRegisterUser() {
	s.Run("first registration assigns the User role", func() {
		identity, err := s.ledger.RegisterUser(s.ctx, aliceAddr)
		s.Require().NoError(err)
		s.True(identity.Registered)
		s.Equal(domain.RoleUser, identity.Role)
	})

	s.Run("second registration fails and preserves the role", func() {
		s.Require().NoError(s.ledger.AssignRole(s.ctx, adminAddr, aliceAddr, domain.RoleInspector))

		_, err := s.ledger.RegisterUser(s.ctx, aliceAddr)
		s.True(util.HasCode(err, CodeAlreadyRegistered))

		role, registered := s.ledger.GetRole(aliceAddr)
		s.True(registered)
		s.Equal(domain.RoleInspector, role)
	})

	s.Run("registration emits identity and role events", func() {
		_, err := s.ledger.RegisterUser(s.ctx, bobAddr)
		s.Require().NoError(err)

		var types []events.EventType
		for _, event := range s.dispatcher.published {
			if event.Identity == bobAddr {
				types = append(types, event.Type)
			}
		}
		s.Equal([]events.EventType{events.EventIdentityRegistered, events.EventRoleAssigned}, types)
	})
}

func (s *LedgerSuite) TestAssignRole() {
	s.registerAll()

	s.Run("non-admin caller is rejected", func() {
		err := s.ledger.AssignRole(s.ctx, aliceAddr, bobAddr, domain.RoleInspector)
		s.True(util.HasCode(err, CodeUnauthorized))
	})

	s.Run("inspector role does not confer assignment authority", func() {
		err := s.ledger.AssignRole(s.ctx, inspectorAddr, bobAddr, domain.RoleInspector)
		s.True(util.HasCode(err, CodeUnauthorized))
	})

	s.Run("unregistered target is rejected", func() {
		err := s.ledger.AssignRole(s.ctx, adminAddr, strangerAddr, domain.RoleUser)
		s.True(util.HasCode(err, CodeNotRegistered))
	})

	s.Run("unregistered caller is rejected", func() {
		err := s.ledger.AssignRole(s.ctx, strangerAddr, bobAddr, domain.RoleUser)
		s.True(util.HasCode(err, CodeNotRegistered))
	})

	s.Run("unknown role is rejected", func() {
		err := s.ledger.AssignRole(s.ctx, adminAddr, bobAddr, domain.Role("OVERLORD"))
		s.Error(err)
	})

	s.Run("admin may reassign admin itself", func() {
		s.Require().NoError(s.ledger.AssignRole(s.ctx, adminAddr, bobAddr, domain.RoleAdmin))
		s.True(s.ledger.HasRole(bobAddr, domain.RoleAdmin))

		// no last-admin protection: the original admin can demote itself
		s.Require().NoError(s.ledger.AssignRole(s.ctx, adminAddr, adminAddr, domain.RoleUser))
		s.False(s.ledger.HasRole(adminAddr, domain.RoleAdmin))
	})
}

func (s *LedgerSuite) TestGetRole() {
	s.Run("never-registered address reports zero role, unregistered", func() {
		role, registered := s.ledger.GetRole(strangerAddr)
		s.Equal(domain.RoleUser, role)
		s.False(registered)
	})

	s.Run("registered user reports User role, registered", func() {
		_, err := s.ledger.RegisterUser(s.ctx, aliceAddr)
		s.Require().NoError(err)

		role, registered := s.ledger.GetRole(aliceAddr)
		s.Equal(domain.RoleUser, role)
		s.True(registered)
	})
}

func (s *LedgerSuite) TestRegisterLand() {
	s.registerAll()

	s.Run("unregistered caller is rejected", func() {
		_, err := s.ledger.RegisterLand(s.ctx, strangerAddr, LandRegistration{DocumentHash: "bafy"})
		s.True(util.HasCode(err, CodeNotRegistered))
	})

	s.Run("missing document hash is rejected", func() {
		_, err := s.ledger.RegisterLand(s.ctx, aliceAddr, LandRegistration{})
		s.Error(err)
	})

	s.Run("ids are sequential from 1 and parcels start pending", func() {
		first, err := s.ledger.RegisterLand(s.ctx, aliceAddr, LandRegistration{DocumentHash: "bafy1"})
		s.Require().NoError(err)
		second, err := s.ledger.RegisterLand(s.ctx, bobAddr, LandRegistration{DocumentHash: "bafy2"})
		s.Require().NoError(err)

		s.Equal(uint64(1), first)
		s.Equal(uint64(2), second)

		state, err := s.ledger.PropertyStatus(first)
		s.Require().NoError(err)
		s.Equal(domain.PropertyStatePending, state)

		owner, err := s.ledger.OwnerOf(second)
		s.Require().NoError(err)
		s.Equal(bobAddr, owner)
	})
}

func (s *LedgerSuite) TestApproveProperty() {
	s.registerAll()
	id, err := s.ledger.RegisterLand(s.ctx, aliceAddr, LandRegistration{DocumentHash: "bafy"})
	s.Require().NoError(err)

	s.Run("plain user cannot verify", func() {
		err := s.ledger.ApproveProperty(s.ctx, bobAddr, id)
		s.True(util.HasCode(err, CodeUnauthorized))
	})

	s.Run("unknown property", func() {
		err := s.ledger.ApproveProperty(s.ctx, inspectorAddr, 999)
		s.True(util.HasCode(err, CodeNotFound))
	})

	s.Run("inspector verifies a pending parcel", func() {
		s.Require().NoError(s.ledger.ApproveProperty(s.ctx, inspectorAddr, id))

		state, err := s.ledger.PropertyStatus(id)
		s.Require().NoError(err)
		s.Equal(domain.PropertyStateVerified, state)
	})

	s.Run("second verification fails and state is unchanged", func() {
		err := s.ledger.ApproveProperty(s.ctx, inspectorAddr, id)
		s.True(util.HasCode(err, CodeInvalidState))

		state, err := s.ledger.PropertyStatus(id)
		s.Require().NoError(err)
		s.Equal(domain.PropertyStateVerified, state)
	})

	s.Run("admin may verify too", func() {
		other, err := s.ledger.RegisterLand(s.ctx, aliceAddr, LandRegistration{DocumentHash: "bafy3"})
		s.Require().NoError(err)
		s.NoError(s.ledger.ApproveProperty(s.ctx, adminAddr, other))
	})
}

func (s *LedgerSuite) TestMarkForSale() {
	s.registerAll()
	id, err := s.ledger.RegisterLand(s.ctx, aliceAddr, LandRegistration{DocumentHash: "bafy", Price: 50})
	s.Require().NoError(err)

	s.Run("pending parcel cannot be listed", func() {
		err := s.ledger.MarkForSale(s.ctx, aliceAddr, id, nil)
		s.True(util.HasCode(err, CodeInvalidState))
	})

	s.Run("only the owner may list", func() {
		s.Require().NoError(s.ledger.ApproveProperty(s.ctx, inspectorAddr, id))

		err := s.ledger.MarkForSale(s.ctx, bobAddr, id, nil)
		s.True(util.HasCode(err, CodeUnauthorized))
	})

	s.Run("listing with a price updates it", func() {
		price := uint64(100)
		s.Require().NoError(s.ledger.MarkForSale(s.ctx, aliceAddr, id, &price))

		forSale, err := s.ledger.IsPropertyForSale(id)
		s.Require().NoError(err)
		s.True(forSale)

		got, err := s.ledger.PropertyPrice(id)
		s.Require().NoError(err)
		s.Equal(uint64(100), got)
	})

	s.Run("relisting a listed parcel fails", func() {
		err := s.ledger.MarkForSale(s.ctx, aliceAddr, id, nil)
		s.True(util.HasCode(err, CodeInvalidState))
	})

	s.Run("omitted price keeps the recorded price", func() {
		other, err := s.ledger.RegisterLand(s.ctx, aliceAddr, LandRegistration{DocumentHash: "bafy2", Price: 75})
		s.Require().NoError(err)
		s.Require().NoError(s.ledger.ApproveProperty(s.ctx, inspectorAddr, other))
		s.Require().NoError(s.ledger.MarkForSale(s.ctx, aliceAddr, other, nil))

		got, err := s.ledger.PropertyPrice(other)
		s.Require().NoError(err)
		s.Equal(uint64(75), got)
	})
}

func (s *LedgerSuite) TestRequestTransfer() {
	s.registerAll()
	id := s.listedProperty(100)

	s.Run("owner cannot request own property", func() {
		err := s.ledger.RequestTransfer(s.ctx, aliceAddr, id)
		s.True(util.HasCode(err, CodeUnauthorized))
	})

	s.Run("unregistered caller is rejected", func() {
		err := s.ledger.RequestTransfer(s.ctx, strangerAddr, id)
		s.True(util.HasCode(err, CodeNotRegistered))
	})

	s.Run("request attaches without changing state", func() {
		s.Require().NoError(s.ledger.RequestTransfer(s.ctx, bobAddr, id))

		property, err := s.ledger.Property(id)
		s.Require().NoError(err)
		s.Equal(domain.PropertyStateForSale, property.State)
		s.Require().NotNil(property.PendingTransfer)
		s.Equal(bobAddr, property.PendingTransfer.Requester)
	})

	s.Run("second request while one is pending fails", func() {
		err := s.ledger.RequestTransfer(s.ctx, inspectorAddr, id)
		s.True(util.HasCode(err, CodeTransferInProgress))
	})

	s.Run("unlisted parcel cannot be requested", func() {
		pending, err := s.ledger.RegisterLand(s.ctx, aliceAddr, LandRegistration{DocumentHash: "bafyp"})
		s.Require().NoError(err)

		err = s.ledger.RequestTransfer(s.ctx, bobAddr, pending)
		s.True(util.HasCode(err, CodeInvalidState))
	})
}

func (s *LedgerSuite) TestApproveTransfer() {
	s.registerAll()
	id := s.listedProperty(100)

	s.Run("no pending request", func() {
		err := s.ledger.ApproveTransfer(s.ctx, aliceAddr, id)
		s.True(util.HasCode(err, CodeNoPendingTransfer))
	})

	s.Run("missing request wins over missing authority", func() {
		err := s.ledger.ApproveTransfer(s.ctx, bobAddr, id)
		s.True(util.HasCode(err, CodeNoPendingTransfer))
	})

	s.Run("non-owner non-admin cannot resolve", func() {
		s.Require().NoError(s.ledger.RequestTransfer(s.ctx, bobAddr, id))

		err := s.ledger.ApproveTransfer(s.ctx, inspectorAddr, id)
		s.True(util.HasCode(err, CodeUnauthorized))
	})

	s.Run("owner approval transfers ownership and seals the parcel", func() {
		s.Require().NoError(s.ledger.ApproveTransfer(s.ctx, aliceAddr, id))

		property, err := s.ledger.Property(id)
		s.Require().NoError(err)
		s.Equal(bobAddr, property.Owner)
		s.Equal(domain.PropertyStateSold, property.State)
		s.Nil(property.PendingTransfer)
	})

	s.Run("sold is terminal for every lifecycle operation", func() {
		err := s.ledger.MarkForSale(s.ctx, bobAddr, id, nil)
		s.True(util.HasCode(err, CodeInvalidState))

		err = s.ledger.RequestTransfer(s.ctx, aliceAddr, id)
		s.True(util.HasCode(err, CodeInvalidState))

		err = s.ledger.ApproveProperty(s.ctx, inspectorAddr, id)
		s.True(util.HasCode(err, CodeInvalidState))
	})

	s.Run("price stays readable after the sale", func() {
		price, err := s.ledger.PropertyPrice(id)
		s.Require().NoError(err)
		s.Equal(uint64(100), price)
	})

	s.Run("admin may resolve on behalf of the owner", func() {
		other := s.listedProperty(40)
		s.Require().NoError(s.ledger.RequestTransfer(s.ctx, bobAddr, other))
		s.Require().NoError(s.ledger.ApproveTransfer(s.ctx, adminAddr, other))

		owner, err := s.ledger.OwnerOf(other)
		s.Require().NoError(err)
		s.Equal(bobAddr, owner)
	})
}

func (s *LedgerSuite) TestRejectTransfer() {
	s.registerAll()
	id := s.listedProperty(100)
	s.Require().NoError(s.ledger.RequestTransfer(s.ctx, bobAddr, id))

	s.Run("rejection clears the request and keeps the listing", func() {
		s.Require().NoError(s.ledger.RejectTransfer(s.ctx, aliceAddr, id))

		property, err := s.ledger.Property(id)
		s.Require().NoError(err)
		s.Equal(domain.PropertyStateForSale, property.State)
		s.Nil(property.PendingTransfer)
		s.Equal(aliceAddr, property.Owner)
	})

	s.Run("a fresh request is accepted afterwards", func() {
		s.NoError(s.ledger.RequestTransfer(s.ctx, inspectorAddr, id))
	})

	s.Run("rejecting again fails with no pending transfer", func() {
		s.Require().NoError(s.ledger.RejectTransfer(s.ctx, aliceAddr, id))

		err := s.ledger.RejectTransfer(s.ctx, aliceAddr, id)
		s.True(util.HasCode(err, CodeNoPendingTransfer))
	})
}

func (s *LedgerSuite) TestQueries() {
	s.registerAll()

	s.Run("unknown ids fail with not found", func() {
		_, err := s.ledger.PropertyStatus(42)
		s.True(util.HasCode(err, CodeNotFound))
		_, err = s.ledger.OwnerOf(42)
		s.True(util.HasCode(err, CodeNotFound))
		_, err = s.ledger.PropertyPrice(42)
		s.True(util.HasCode(err, CodeNotFound))
		_, err = s.ledger.IsPropertyForSale(42)
		s.True(util.HasCode(err, CodeNotFound))
	})

	s.Run("properties by status preserves registration order", func() {
		first, err := s.ledger.RegisterLand(s.ctx, aliceAddr, LandRegistration{DocumentHash: "a"})
		s.Require().NoError(err)
		second, err := s.ledger.RegisterLand(s.ctx, bobAddr, LandRegistration{DocumentHash: "b"})
		s.Require().NoError(err)
		third, err := s.ledger.RegisterLand(s.ctx, aliceAddr, LandRegistration{DocumentHash: "c"})
		s.Require().NoError(err)

		s.Require().NoError(s.ledger.ApproveProperty(s.ctx, inspectorAddr, second))

		pending, err := s.ledger.PropertiesByStatus(domain.PropertyStatePending)
		s.Require().NoError(err)
		s.Equal([]uint64{first, third}, pending)

		verified, err := s.ledger.PropertiesByStatus(domain.PropertyStateVerified)
		s.Require().NoError(err)
		s.Equal([]uint64{second}, verified)
	})

	s.Run("unknown status is rejected", func() {
		_, err := s.ledger.PropertiesByStatus(domain.PropertyState("LIMBO"))
		s.Error(err)
	})

	s.Run("snapshots do not alias ledger state", func() {
		id := s.listedProperty(10)
		property, err := s.ledger.Property(id)
		s.Require().NoError(err)

		property.State = domain.PropertyStateSold
		property.Owner = strangerAddr

		state, err := s.ledger.PropertyStatus(id)
		s.Require().NoError(err)
		s.Equal(domain.PropertyStateForSale, state)
	})
}

func (s *LedgerSuite) TestFullLifecycleScenario() {
	// admin bootstraps, A registers, registers land, inspector verifies,
	// A lists at 100, B requests, A approves, B owns a sold parcel.
	_, err := s.ledger.RegisterUser(s.ctx, aliceAddr)
	s.Require().NoError(err)
	_, err = s.ledger.RegisterUser(s.ctx, bobAddr)
	s.Require().NoError(err)
	_, err = s.ledger.RegisterUser(s.ctx, inspectorAddr)
	s.Require().NoError(err)
	s.Require().NoError(s.ledger.AssignRole(s.ctx, adminAddr, inspectorAddr, domain.RoleInspector))

	id, err := s.ledger.RegisterLand(s.ctx, aliceAddr, LandRegistration{
		SurveyID:     "SRV-1",
		DocumentHash: "bafybeigdeed",
		Location:     "North Ridge",
		Area:         "800 sqm",
	})
	s.Require().NoError(err)
	s.Equal(uint64(1), id)

	s.Require().NoError(s.ledger.ApproveProperty(s.ctx, inspectorAddr, id))

	price := uint64(100)
	s.Require().NoError(s.ledger.MarkForSale(s.ctx, aliceAddr, id, &price))

	got, err := s.ledger.PropertyPrice(id)
	s.Require().NoError(err)
	s.Equal(uint64(100), got)

	s.Require().NoError(s.ledger.RequestTransfer(s.ctx, bobAddr, id))
	s.Require().NoError(s.ledger.ApproveTransfer(s.ctx, aliceAddr, id))

	owner, err := s.ledger.OwnerOf(id)
	s.Require().NoError(err)
	s.Equal(bobAddr, owner)

	err = s.ledger.MarkForSale(s.ctx, bobAddr, id, nil)
	s.True(util.HasCode(err, CodeInvalidState))

	var types []events.EventType
	for _, event := range s.dispatcher.published {
		if event.PropertyID == id {
			types = append(types, event.Type)
		}
	}
	s.Equal([]events.EventType{
		events.EventLandRegistered,
		events.EventPropertyVerified,
		events.EventPropertyListed,
		events.EventTransferRequested,
		events.EventTransferApproved,
	}, types)
}
