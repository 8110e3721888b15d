package service

import (
	"sync"

	"github.com/Netcracker/qubership-apihub-editor-session-service/client"
	"github.com/Netcracker/qubership-apihub-editor-session-service/utils"
	"github.com/buraksezer/olric"
	log "github.com/sirupsen/logrus"
)

// SessionEventPublisher broadcasts the no-payload "closed" signal so that
// interested apihub components can react to a session ending.
type SessionEventPublisher interface {
	Start()
	PublishClosed(sessionId string)
}

const SessionClosedTopicName = "editor-session-closed"

func NewSessionEventPublisher(op client.OlricProvider) SessionEventPublisher {
	return &sessionEventPublisherImpl{
		op:        op,
		isReadyWg: sync.WaitGroup{},
	}
}

type sessionEventPublisherImpl struct {
	op                 client.OlricProvider
	sessionClosedTopic *olric.DTopic
	isReadyWg          sync.WaitGroup
}

func (p *sessionEventPublisherImpl) Start() {
	p.isReadyWg.Add(1)
	utils.SafeAsync(func() {
		p.initSessionClosedDTopic()
	})
}

func (p *sessionEventPublisherImpl) PublishClosed(sessionId string) {
	utils.SafeAsync(func() {
		p.isReadyWg.Wait()
		if p.sessionClosedTopic == nil {
			log.Errorf("Session closed topic is not available, signal for session %s dropped", sessionId)
			return
		}
		if err := p.sessionClosedTopic.Publish(sessionId); err != nil {
			log.Errorf("Failed to publish closed signal for session %s: %s", sessionId, err)
		}
	})
}

func (p *sessionEventPublisherImpl) initSessionClosedDTopic() {
	var err error
	p.sessionClosedTopic, err = p.op.Get().NewDTopic(SessionClosedTopicName, 10000, olric.UnorderedDelivery)
	if err != nil {
		log.Errorf("Failed to create DTopic %s: %s", SessionClosedTopicName, err.Error())
	}

	p.isReadyWg.Done()
}
